package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// GetStopMap 站点地图
// GET /api/stops/map?data=num_times_stopped
// 未指定 data 时重定向到默认数据类型
func (h *Handler) GetStopMap(c *gin.Context) {
	dataType := c.Query("data")
	if dataType == "" {
		query := c.Request.URL.Query()
		query.Set("data", string(models.DefaultMapDataType))
		c.Redirect(http.StatusFound, c.Request.URL.Path+"?"+query.Encode())
		return
	}
	if !models.MapDataType(dataType).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data type"})
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.dashboard.StopMap(c.Request.Context(), filter, models.MapDataType(dataType))
	if err != nil {
		h.logger.Error("Failed to build stop map", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stops"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": m})
}
