package settings

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// IntervalStore 保养间隔的持久化，读写失败只记录日志
type IntervalStore struct {
	store   Store
	logger  *zap.Logger
	timeout time.Duration
}

// NewIntervalStore 创建间隔持久化；timeout 为单次读写超时，0 表示不设超时
func NewIntervalStore(store Store, logger *zap.Logger, timeout time.Duration) *IntervalStore {
	return &IntervalStore{store: store, logger: logger, timeout: timeout}
}

// Load 读取三个固定间隔，缺失或无法解析时使用默认值
func (s *IntervalStore) Load(ctx context.Context) []models.MaintenanceInterval {
	intervals := models.DefaultIntervals()
	for i := range intervals {
		intervals[i].Miles = s.readMiles(ctx, intervals[i].StorageKey, intervals[i].Miles)
	}
	return intervals
}

// Save 写回单个间隔
func (s *IntervalStore) Save(ctx context.Context, interval models.MaintenanceInterval) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	value := strconv.FormatFloat(interval.Miles, 'f', -1, 64)
	if err := s.store.Set(ctx, interval.StorageKey, value); err != nil {
		s.logger.Error("Failed to persist interval",
			zap.String("storage_key", interval.StorageKey),
			zap.Float64("miles", interval.Miles),
			zap.Error(err),
		)
	}
}

func (s *IntervalStore) readMiles(ctx context.Context, key string, fallback float64) float64 {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Error("Failed to read interval", zap.String("storage_key", key), zap.Error(err))
		return fallback
	}
	if !ok {
		return fallback
	}

	miles, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		s.logger.Warn("Ignoring malformed interval",
			zap.String("storage_key", key),
			zap.String("value", raw),
		)
		return fallback
	}
	return miles
}

func (s *IntervalStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
