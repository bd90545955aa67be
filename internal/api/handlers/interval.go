package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ninerlytics/transit-dashboard/internal/service"
	"github.com/ninerlytics/transit-dashboard/internal/state"
)

// intervalRequest 间隔修改请求
type intervalRequest struct {
	Miles float64 `json:"miles" binding:"required,gte=1"`
}

// editorRequest 弹窗提交请求，校验交给弹窗
type editorRequest struct {
	Miles *float64 `json:"miles"`
}

// ListIntervals 获取保养间隔
func (h *Handler) ListIntervals(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.dashboard.Intervals()})
}

// UpdateInterval 修改保养间隔
// PUT /api/intervals/:key
func (h *Handler) UpdateInterval(c *gin.Context) {
	key, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interval key"})
		return
	}

	var req intervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": state.ErrInvalidMiles.Error()})
		return
	}

	interval, err := h.dashboard.UpdateInterval(c.Request.Context(), key, req.Miles)
	if err != nil {
		h.intervalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": interval})
}

// OpenIntervalEditor 打开间隔编辑弹窗
// POST /api/intervals/:key/edit
func (h *Handler) OpenIntervalEditor(c *gin.Context) {
	key, err := strconv.Atoi(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid interval key"})
		return
	}

	es, err := h.dashboard.OpenIntervalEditor(key)
	if err != nil {
		h.intervalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": es})
}

// GetIntervalEditor 获取弹窗状态
func (h *Handler) GetIntervalEditor(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.dashboard.EditorState()})
}

// SubmitIntervalEditor 提交弹窗
// POST /api/editor/submit
// 校验失败时返回 422 和仍处于打开状态的弹窗
func (h *Handler) SubmitIntervalEditor(c *gin.Context) {
	var req editorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Miles == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	es, err := h.dashboard.SubmitInterval(c.Request.Context(), *req.Miles)
	if errors.Is(err, state.ErrInvalidMiles) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "data": es})
		return
	}
	if err != nil {
		h.intervalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": es})
}

// CloseIntervalEditor 关闭弹窗
// DELETE /api/editor
func (h *Handler) CloseIntervalEditor(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.dashboard.CloseIntervalEditor()})
}

func (h *Handler) intervalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownInterval):
		c.JSON(http.StatusNotFound, gin.H{"error": "Interval not found"})
	case errors.Is(err, state.ErrInvalidMiles):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEditorClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Failed to update interval", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update interval"})
	}
}
