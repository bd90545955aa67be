package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ninerlytics/transit-dashboard/pkg/ws"
)

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// API 路由
	api := r.Group("/api")
	{
		// 车辆表格
		api.GET("/buses", h.ListBuses)
		api.POST("/buses/sort/:key", h.SortBuses)
		api.GET("/buses/export", h.ExportBuses)
		api.GET("/buses/export.xlsx", h.ExportBusesWorkbook)

		// 保养间隔
		api.GET("/intervals", h.ListIntervals)
		api.PUT("/intervals/:key", h.UpdateInterval)
		api.POST("/intervals/:key/edit", h.OpenIntervalEditor)

		// 间隔编辑弹窗
		api.GET("/editor", h.GetIntervalEditor)
		api.POST("/editor/submit", h.SubmitIntervalEditor)
		api.DELETE("/editor", h.CloseIntervalEditor)

		// 站点地图
		api.GET("/stops/map", h.GetStopMap)
	}

	// WebSocket
	r.GET("/ws", h.HandleWebSocket)

	// 健康检查
	r.GET("/health", h.HealthCheck)
}

// HandleWebSocket WebSocket 处理
func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	client.Register()

	// 启动读写协程
	go client.ReadPump()
	go client.WritePump()
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"ws_clients": h.wsHub.ClientCount(),
	})
}
