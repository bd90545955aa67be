package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 消息类型
const (
	MsgTypeInit           = "init"            // 连接建立后下发保养间隔与排序状态
	MsgTypeIntervalUpdate = "interval_update" // 某个保养间隔被修改
	MsgTypeNotification   = "notification"    // 给用户的短提示
	MsgTypeError          = "error"
)

// 连接保活参数
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

// Message 推送给前端的消息
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// InitData init 消息内容
type InitData struct {
	Intervals interface{} `json:"intervals"`
	Sort      interface{} `json:"sort"`
}

// Notification notification 消息内容
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Hub 仪表盘的 WebSocket 连接集合，所有消息经 Run 循环分发
type Hub struct {
	logger *zap.Logger

	mu    sync.RWMutex
	peers map[*Client]struct{}

	joins    chan *Client
	leaves   chan *Client
	outgoing chan []byte
	done     chan struct{}
	stopOnce sync.Once

	initData func() *InitData
}

// NewHub 创建 Hub，需另起协程调用 Run
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:   logger,
		peers:    make(map[*Client]struct{}),
		joins:    make(chan *Client),
		leaves:   make(chan *Client),
		outgoing: make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
	}
}

// SetInitDataProvider 设置新连接的 init 数据来源
func (h *Hub) SetInitDataProvider(provider func() *InitData) {
	h.initData = provider
}

// Run 分发循环，Stop 后关闭所有连接并返回
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.joins:
			h.join(c)
		case c := <-h.leaves:
			h.leave(c)
		case payload := <-h.outgoing:
			h.fanOut(payload)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop 停止分发循环，可重复调用
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	h.peers[c] = struct{}{}
	n := len(h.peers)
	h.mu.Unlock()

	h.logger.Info("Dashboard client connected", zap.Int("clients", n))
	h.greet(c)
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	if _, ok := h.peers[c]; ok {
		delete(h.peers, c)
		close(c.send)
	}
	n := len(h.peers)
	h.mu.Unlock()

	h.logger.Info("Dashboard client disconnected", zap.Int("clients", n))
}

// fanOut 发送给每个连接，缓冲已满的连接直接断开
func (h *Hub) fanOut(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.peers {
		select {
		case c.send <- payload:
		default:
			delete(h.peers, c)
			close(c.send)
			h.logger.Warn("Dropped slow dashboard client")
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.peers {
		delete(h.peers, c)
		close(c.send)
	}
}

// greet 给新连接下发 init 消息
func (h *Hub) greet(c *Client) {
	if h.initData == nil {
		return
	}
	data := h.initData()
	if data == nil {
		return
	}

	payload, err := encode(MsgTypeInit, data)
	if err != nil {
		h.logger.Error("Failed to encode init message", zap.Error(err))
		return
	}

	select {
	case c.send <- payload:
	default:
		h.logger.Warn("Init message skipped, client buffer full")
	}
}

func encode(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(Message{Type: msgType, Data: data})
}

// Broadcast 推送原始 JSON，Hub 已停止时丢弃
func (h *Hub) Broadcast(payload []byte) {
	select {
	case h.outgoing <- payload:
	case <-h.done:
	}
}

// BroadcastMessage 推送一条类型化消息
func (h *Hub) BroadcastMessage(msgType string, data interface{}) {
	payload, err := encode(msgType, data)
	if err != nil {
		h.logger.Error("Failed to encode message", zap.String("type", msgType), zap.Error(err))
		return
	}
	h.Broadcast(payload)
}

// Notify 推送一条提示
func (h *Hub) Notify(level, message string) {
	h.BroadcastMessage(MsgTypeNotification, Notification{Level: level, Message: message})
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

// Client 单个浏览器连接
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewClient 包装已升级的连接
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// Register 加入 Hub
func (c *Client) Register() {
	select {
	case c.hub.joins <- c:
	case <-c.hub.done:
	}
}

// Unregister 离开 Hub
func (c *Client) Unregister() {
	select {
	case c.hub.leaves <- c:
	case <-c.hub.done:
	}
}

// ReadPump 只处理 pong 与关闭帧，前端不发送业务消息
func (c *Client) ReadPump() {
	defer func() {
		c.Unregister()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("Dashboard client read error", zap.Error(err))
			}
			return
		}
	}
}

// WritePump 写出消息并定期 ping，send 关闭后发送关闭帧
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
