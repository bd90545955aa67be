package fleet

import (
	"math"
	"sort"
)

// SortKey 表格排序列
type SortKey string

const (
	SortName       SortKey = "name"
	SortStops      SortKey = "stops"
	SortPeopleOn   SortKey = "people_on"
	SortPeopleOff  SortKey = "people_off"
	SortMiles      SortKey = "miles"
	SortAvgMiles   SortKey = "avg_miles"
	SortRefuel     SortKey = "refuel"
	SortOilChange  SortKey = "oil_change"
	SortInspection SortKey = "inspection"
)

// SortKeys 所有可排序列
var SortKeys = []SortKey{
	SortName, SortStops, SortPeopleOn, SortPeopleOff,
	SortMiles, SortAvgMiles, SortRefuel, SortOilChange, SortInspection,
}

// IsValid 检查排序列是否合法
func (k SortKey) IsValid() bool {
	for _, key := range SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SortState 当前排序
type SortState struct {
	Key       SortKey `json:"key"`
	Ascending bool    `json:"ascending"`
}

// DefaultSortState 初始排序：按车辆编号升序
func DefaultSortState() SortState {
	return SortState{Key: SortName, Ascending: true}
}

// Rank 稳定排序，返回新切片
func Rank(rows []Row, s SortState) []Row {
	ranked := make([]Row, len(rows))
	copy(ranked, rows)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Compare(ranked[i], ranked[j], s) < 0
	})
	return ranked
}

// Compare 比较两行，负数表示 a 排在 b 之前
//
// 非 name 列：双方都有数据时按对应原始值比较；只有一方有数据时，
// 有数据的一方始终在前，且不受升降序影响。
// 结果为 0（包括 name 列）时按车辆编号整数值比较，最后整体按升降序取反，
// 因此降序时编号比较也会反转。NaN 视为相等。
func Compare(a, b Row, s SortState) float64 {
	result := 0.0
	if s.Key != SortName {
		switch {
		case a.Data != nil && b.Data != nil:
			result = compareData(a.Data, b.Data, s.Key)
		case a.Data != nil:
			return -1
		case b.Data != nil:
			return 1
		}
	}

	if result == 0 {
		result = ParseCode(a.Bus.Code) - ParseCode(b.Bus.Code)
	}
	if math.IsNaN(result) {
		return 0
	}
	if !s.Ascending {
		return -result
	}
	return result
}

func compareData(a, b *RowData, key SortKey) float64 {
	switch key {
	case SortStops:
		return float64(a.NumTimesStopped - b.NumTimesStopped)
	case SortPeopleOn:
		return float64(a.TotalPeopleOn - b.TotalPeopleOn)
	case SortPeopleOff:
		return float64(a.TotalPeopleOff - b.TotalPeopleOff)
	case SortMiles, SortAvgMiles:
		// 日均与总里程共用同一比较（天数对所有车辆相同）
		return a.DistanceFromLast - b.DistanceFromLast
	case SortRefuel, SortOilChange, SortInspection:
		// 剩余天数与里程成反比
		return 1/a.DistanceFromLast - 1/b.DistanceFromLast
	}
	return 0
}
