package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ninerlytics/transit-dashboard/internal/service"
	"github.com/ninerlytics/transit-dashboard/pkg/ws"
)

// Handler HTTP 处理器
type Handler struct {
	logger    *zap.Logger
	dashboard *service.DashboardService
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
}

// NewHandler 创建处理器
func NewHandler(
	logger *zap.Logger,
	dashboard *service.DashboardService,
	wsHub *ws.Hub,
) *Handler {
	return &Handler{
		logger:    logger,
		dashboard: dashboard,
		wsHub:     wsHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 开发环境允许所有来源
			},
		},
	}
}
