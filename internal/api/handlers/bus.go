package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ninerlytics/transit-dashboard/internal/fleet"
	"github.com/ninerlytics/transit-dashboard/internal/service"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListBuses 获取车辆表格
// GET /api/buses?min_date=&max_date=&sort=&ascending=
func (h *Handler) ListBuses(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var override *fleet.SortState
	if key := c.Query("sort"); key != "" {
		s := fleet.SortState{Key: fleet.SortKey(key), Ascending: true}
		if !s.Key.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort key"})
			return
		}
		if v := c.Query("ascending"); v != "" {
			s.Ascending, err = strconv.ParseBool(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ascending flag"})
				return
			}
		}
		override = &s
	}

	table, err := h.dashboard.Table(c.Request.Context(), filter, override)
	if err != nil {
		h.logger.Error("Failed to build bus table", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load buses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": table})
}

// SortBuses 点击表头排序
// POST /api/buses/sort/:key
func (h *Handler) SortBuses(c *gin.Context) {
	s, err := h.dashboard.Sort(fleet.SortKey(c.Param("key")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": s})
}

// ExportBuses 导出制表符分隔文本，前端直接写入剪贴板
// GET /api/buses/export
func (h *Handler) ExportBuses(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := h.dashboard.Export(c.Request.Context(), filter)
	if err != nil {
		h.exportError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/tab-separated-values; charset=utf-8", []byte(text))
}

// ExportBusesWorkbook 导出 xlsx
// GET /api/buses/export.xlsx
func (h *Handler) ExportBusesWorkbook(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buf, err := h.dashboard.ExportWorkbook(c.Request.Context(), filter)
	if err != nil {
		h.exportError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ninerlytics-export.xlsx"`)
	c.Data(http.StatusOK, workbookContentType, buf.Bytes())
}

func (h *Handler) exportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNoData) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data to export"})
		return
	}
	h.logger.Error("Failed to export buses", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export"})
}
