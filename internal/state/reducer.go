package state

import (
	"github.com/ninerlytics/transit-dashboard/internal/fleet"
	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// defaultAscending 切换到某列时的默认方向
var defaultAscending = map[fleet.SortKey]bool{
	fleet.SortName:       true,
	fleet.SortRefuel:     true,
	fleet.SortOilChange:  true,
	fleet.SortInspection: true,
}

// ReduceSort 点击表头：同一列切换方向，其他列使用该列默认方向
func ReduceSort(s fleet.SortState, key fleet.SortKey) fleet.SortState {
	if s.Key == key {
		return fleet.SortState{Key: key, Ascending: !s.Ascending}
	}
	return fleet.SortState{Key: key, Ascending: defaultAscending[key]}
}

// IntervalAction 修改某个保养间隔
type IntervalAction struct {
	Key   int     `json:"key"`
	Miles float64 `json:"miles"`
}

// ReduceIntervals 返回应用 action 后的新间隔列表，不修改入参
func ReduceIntervals(intervals []models.MaintenanceInterval, action IntervalAction) []models.MaintenanceInterval {
	next := make([]models.MaintenanceInterval, len(intervals))
	copy(next, intervals)
	for i := range next {
		if next[i].Key == action.Key {
			next[i].Miles = action.Miles
		}
	}
	return next
}

// FindInterval 按 key 查找间隔
func FindInterval(intervals []models.MaintenanceInterval, key int) (models.MaintenanceInterval, bool) {
	for _, in := range intervals {
		if in.Key == key {
			return in, true
		}
	}
	return models.MaintenanceInterval{}, false
}
