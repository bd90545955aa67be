package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/ninerlytics/transit-dashboard/internal/fleet"
	"github.com/ninerlytics/transit-dashboard/internal/models"
	"github.com/ninerlytics/transit-dashboard/internal/settings"
	"github.com/ninerlytics/transit-dashboard/internal/state"
	"github.com/ninerlytics/transit-dashboard/pkg/ws"
)

var (
	// ErrNoData 未选择统计范围，没有可导出的数据
	ErrNoData = errors.New("no data loaded")
	// ErrUnknownInterval 保养间隔不存在
	ErrUnknownInterval = errors.New("unknown maintenance interval")
	// ErrUnknownSortKey 排序列不存在
	ErrUnknownSortKey = errors.New("unknown sort key")
	// ErrEditorClosed 编辑弹窗未打开
	ErrEditorClosed = state.ErrEditorClosed
)

// BusLister 车辆列表
type BusLister interface {
	List(ctx context.Context) ([]models.Bus, error)
}

// RouteLister 线路列表
type RouteLister interface {
	List(ctx context.Context) ([]models.Route, error)
}

// StatsAggregator 按筛选条件聚合每辆车的统计
type StatsAggregator interface {
	Aggregate(ctx context.Context, f *models.DataFilter) ([]models.BusStatistics, error)
}

// StopLister 站点及聚合值
type StopLister interface {
	ListWithValues(ctx context.Context, f *models.DataFilter, dataType models.MapDataType) ([]models.StopValue, error)
}

// Broadcaster 推送消息给所有 WebSocket 客户端
type Broadcaster interface {
	BroadcastMessage(msgType string, data interface{})
	Notify(level, message string)
}

// DashboardService 仪表盘服务，持有排序状态、保养间隔与编辑弹窗
type DashboardService struct {
	logger      *zap.Logger
	buses       BusLister
	routes      RouteLister
	stats       StatsAggregator
	stops       StopLister
	settings    *settings.IntervalStore
	broadcaster Broadcaster
	mapView     models.MapView
	editor      *state.IntervalEditor

	mu        sync.RWMutex
	sort      fleet.SortState
	intervals []models.MaintenanceInterval
}

// NewDashboardService 创建仪表盘服务，间隔初始为默认值，调用 LoadSettings 读取已保存的值
func NewDashboardService(
	logger *zap.Logger,
	buses BusLister,
	routes RouteLister,
	stats StatsAggregator,
	stops StopLister,
	intervalStore *settings.IntervalStore,
	broadcaster Broadcaster,
	mapView models.MapView,
) *DashboardService {
	return &DashboardService{
		logger:      logger,
		buses:       buses,
		routes:      routes,
		stats:       stats,
		stops:       stops,
		settings:    intervalStore,
		broadcaster: broadcaster,
		mapView:     mapView,
		editor:      state.NewIntervalEditor(),
		sort:        fleet.DefaultSortState(),
		intervals:   models.DefaultIntervals(),
	}
}

// LoadSettings 读取已保存的保养间隔
func (s *DashboardService) LoadSettings(ctx context.Context) {
	intervals := s.settings.Load(ctx)

	s.mu.Lock()
	s.intervals = intervals
	s.mu.Unlock()

	s.logger.Info("Maintenance intervals loaded",
		zap.Int("count", len(intervals)),
	)
}

// Table 生成车辆表格；filter 为 nil 时不加载统计数据，sort 为 nil 时使用当前排序
func (s *DashboardService) Table(ctx context.Context, filter *models.DataFilter, sort *fleet.SortState) (*fleet.Table, error) {
	buses, err := s.buses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list buses: %w", err)
	}

	var stats []models.BusStatistics
	if filter != nil {
		stats, err = s.stats.Aggregate(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("aggregate stats: %w", err)
		}
		// nil 表示未加载，筛选范围内无记录时仍视为已加载
		if stats == nil {
			stats = []models.BusStatistics{}
		}
	}

	s.mu.RLock()
	in := fleet.Input{
		Buses:     buses,
		Stats:     stats,
		Intervals: append([]models.MaintenanceInterval(nil), s.intervals...),
		Filter:    filter,
		Sort:      s.sort,
	}
	s.mu.RUnlock()

	if sort != nil {
		in.Sort = *sort
	}
	return fleet.Build(in), nil
}

// SortState 当前排序
func (s *DashboardService) SortState() fleet.SortState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

// Sort 点击列头：同一列切换方向，其他列使用该列默认方向
func (s *DashboardService) Sort(key fleet.SortKey) (fleet.SortState, error) {
	if !key.IsValid() {
		return fleet.SortState{}, fmt.Errorf("%w: %s", ErrUnknownSortKey, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = state.ReduceSort(s.sort, key)
	return s.sort, nil
}

// Export 生成制表符分隔的导出文本
func (s *DashboardService) Export(ctx context.Context, filter *models.DataFilter) (string, error) {
	in, err := s.exportInput(ctx, filter)
	if err != nil {
		return "", err
	}
	return fleet.Export(*in), nil
}

// ExportWorkbook 生成 xlsx 导出
func (s *DashboardService) ExportWorkbook(ctx context.Context, filter *models.DataFilter) (*bytes.Buffer, error) {
	in, err := s.exportInput(ctx, filter)
	if err != nil {
		return nil, err
	}

	buf, err := fleet.ExportWorkbook(*in)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	return buf, nil
}

func (s *DashboardService) exportInput(ctx context.Context, filter *models.DataFilter) (*fleet.ExportInput, error) {
	if filter == nil {
		return nil, ErrNoData
	}

	table, err := s.Table(ctx, filter, nil)
	if err != nil {
		return nil, err
	}

	routes, err := s.routes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}

	buses := make([]models.Bus, 0, len(table.Rows))
	for _, row := range table.Rows {
		buses = append(buses, row.Bus)
	}

	return &fleet.ExportInput{
		Filter:  *filter,
		NumDays: *table.NumDays,
		Routes:  routes,
		Buses:   buses,
		Rows:    table.Rows,
	}, nil
}

// Intervals 当前保养间隔
func (s *DashboardService) Intervals() []models.MaintenanceInterval {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MaintenanceInterval(nil), s.intervals...)
}

// EditorState 编辑弹窗快照
func (s *DashboardService) EditorState() state.EditorState {
	return s.editor.State()
}

// OpenIntervalEditor 打开指定间隔的编辑弹窗
func (s *DashboardService) OpenIntervalEditor(key int) (state.EditorState, error) {
	interval, ok := state.FindInterval(s.Intervals(), key)
	if !ok {
		return state.EditorState{}, fmt.Errorf("%w: %d", ErrUnknownInterval, key)
	}

	if err := s.editor.Show(interval); err != nil {
		return state.EditorState{}, fmt.Errorf("show editor: %w", err)
	}
	return s.editor.State(), nil
}

// SubmitInterval 提交弹窗草稿；校验失败时弹窗保持打开并返回 state.ErrInvalidMiles
func (s *DashboardService) SubmitInterval(ctx context.Context, miles float64) (state.EditorState, error) {
	action, err := s.editor.SubmitMiles(miles)
	if err != nil {
		return s.editor.State(), err
	}

	if _, err := s.apply(ctx, action); err != nil {
		return s.editor.State(), err
	}
	return s.editor.State(), nil
}

// CloseIntervalEditor 关闭弹窗，丢弃草稿
func (s *DashboardService) CloseIntervalEditor() state.EditorState {
	s.editor.Hide()
	return s.editor.State()
}

// UpdateInterval 直接修改间隔
func (s *DashboardService) UpdateInterval(ctx context.Context, key int, miles float64) (models.MaintenanceInterval, error) {
	if math.IsNaN(miles) || miles < state.MinIntervalMiles {
		return models.MaintenanceInterval{}, state.ErrInvalidMiles
	}
	return s.apply(ctx, state.IntervalAction{Key: key, Miles: miles})
}

// apply 更新间隔、持久化并通知客户端
func (s *DashboardService) apply(ctx context.Context, action state.IntervalAction) (models.MaintenanceInterval, error) {
	s.mu.Lock()
	intervals := state.ReduceIntervals(s.intervals, action)
	interval, ok := state.FindInterval(intervals, action.Key)
	if !ok {
		s.mu.Unlock()
		return models.MaintenanceInterval{}, fmt.Errorf("%w: %d", ErrUnknownInterval, action.Key)
	}
	s.intervals = intervals
	s.mu.Unlock()

	s.settings.Save(ctx, interval)

	s.logger.Info("Maintenance interval updated",
		zap.String("storage_key", interval.StorageKey),
		zap.Float64("miles", interval.Miles),
	)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(ws.MsgTypeIntervalUpdate, interval)
		s.broadcaster.Notify("info", fmt.Sprintf("%s interval set to %s miles", interval.Name, fleet.FormatNumber(interval.Miles)))
	}
	return interval, nil
}

// InitData WebSocket 新连接的初始数据
func (s *DashboardService) InitData() *ws.InitData {
	return &ws.InitData{
		Intervals: s.Intervals(),
		Sort:      s.SortState(),
	}
}
