package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// 时刻范围默认覆盖全天
const (
	defaultMinTime = "00:00:00"
	defaultMaxTime = "23:59:59"
)

// parseFilter 从查询参数解析筛选条件，没有 min_date 时返回 nil
func parseFilter(c *gin.Context) (*models.DataFilter, error) {
	minDateStr := c.Query("min_date")
	if minDateStr == "" {
		return nil, nil
	}

	minDate, err := time.Parse(models.DateLayout, minDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid min_date %q", minDateStr)
	}
	maxDateStr := c.DefaultQuery("max_date", minDateStr)
	maxDate, err := time.Parse(models.DateLayout, maxDateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid max_date %q", maxDateStr)
	}
	if maxDate.Before(minDate) {
		return nil, fmt.Errorf("max_date %s is before min_date %s", maxDateStr, minDateStr)
	}

	minTime, err := models.ParseClockTime(c.DefaultQuery("min_time", defaultMinTime))
	if err != nil {
		return nil, fmt.Errorf("invalid min_time: %w", err)
	}
	maxTime, err := models.ParseClockTime(c.DefaultQuery("max_time", defaultMaxTime))
	if err != nil {
		return nil, fmt.Errorf("invalid max_time: %w", err)
	}

	routes, err := parseIDs(c.Query("routes"))
	if err != nil {
		return nil, fmt.Errorf("invalid routes: %w", err)
	}
	buses, err := parseIDs(c.Query("buses"))
	if err != nil {
		return nil, fmt.Errorf("invalid buses: %w", err)
	}

	return &models.DataFilter{
		MinDate: minDate,
		MaxDate: maxDate,
		MinTime: minTime,
		MaxTime: maxTime,
		Routes:  routes,
		Buses:   buses,
	}, nil
}

// parseIDs 解析逗号分隔的 ID 列表
func parseIDs(s string) ([]int64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
