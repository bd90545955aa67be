package fleet

import (
	"math"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// MilesPerKm 公里转英里
const MilesPerKm = 0.621371

// RowData 有统计数据的车辆的原始值与派生值
type RowData struct {
	models.BusStatistics
	RelativeMiles      Number            `json:"relative_miles"`
	RelativeMilesColor string            `json:"relative_miles_color"`
	MilesDriven        Number            `json:"miles_driven"`
	AvgMilesPerDay     Number            `json:"avg_miles_per_day"`
	DaysRemaining      map[string]Number `json:"days_remaining"` // 按 storage_key
}

// Row 表格行，Data 为 nil 表示该车辆在统计周期内没有数据
type Row struct {
	Bus  models.Bus `json:"bus"`
	Data *RowData   `json:"data"`
}

// Intensity 相对里程及其配色
type Intensity struct {
	Relative float64
	Color    string
}

// Input 引擎输入
type Input struct {
	Buses     []models.Bus
	Stats     []models.BusStatistics // nil 表示尚未加载
	Intervals []models.MaintenanceInterval
	Filter    *models.DataFilter
	Sort      SortState
}

// Table 引擎输出
type Table struct {
	NumDays *int      `json:"num_days"`
	Sort    SortState `json:"sort"`
	Rows    []Row     `json:"rows"`
}

// Build 关联、排序并计算派生指标
func Build(in Input) *Table {
	t := &Table{Sort: in.Sort}

	var byID map[int64]*RowData
	if in.Stats != nil && in.Filter != nil {
		n := in.Filter.NumDays()
		t.NumDays = &n
		byID = Index(in.Stats)
	}

	t.Rows = Rank(Join(in.Buses, byID), in.Sort)
	ApplyDerived(t.Rows, t.NumDays, in.Intervals)
	return t
}

// Index 按车辆 ID 组织统计数据并附加相对里程
// 同一 ID 出现多次时以最后一条为准
func Index(stats []models.BusStatistics) map[int64]*RowData {
	byID := make(map[int64]*RowData, len(stats))
	for _, s := range stats {
		byID[s.ID] = &RowData{BusStatistics: s}
	}

	intensity := RelativeIntensity(stats)
	for id, data := range byID {
		in := intensity[id]
		data.RelativeMiles = Number(in.Relative)
		data.RelativeMilesColor = in.Color
	}
	return byID
}

// RelativeIntensity 以所有统计记录的最小/最大里程归一化每辆车的里程
// 最小值等于最大值时结果为 NaN，配色为空
func RelativeIntensity(stats []models.BusStatistics) map[int64]Intensity {
	result := make(map[int64]Intensity, len(stats))
	if len(stats) == 0 {
		return result
	}

	minMiles, maxMiles := math.Inf(1), math.Inf(-1)
	for _, s := range stats {
		minMiles = math.Min(minMiles, s.DistanceFromLast)
		maxMiles = math.Max(maxMiles, s.DistanceFromLast)
	}

	for _, s := range stats {
		relative := (s.DistanceFromLast - minMiles) / (maxMiles - minMiles)
		result[s.ID] = Intensity{
			Relative: relative,
			Color:    IntensityGradient.ColorAt(relative),
		}
	}
	return result
}

// Join 每辆车生成一行，按 ID 关联统计数据
func Join(buses []models.Bus, byID map[int64]*RowData) []Row {
	rows := make([]Row, 0, len(buses))
	for _, bus := range buses {
		rows = append(rows, Row{
			Bus:  bus,
			Data: byID[bus.ID],
		})
	}
	return rows
}

// ApplyDerived 计算英里数、日均英里与各保养间隔的剩余天数
// numDays 为 nil 时日均及剩余天数为 NaN
func ApplyDerived(rows []Row, numDays *int, intervals []models.MaintenanceInterval) {
	days := math.NaN()
	if numDays != nil {
		days = float64(*numDays)
	}

	for _, row := range rows {
		data := row.Data
		if data == nil {
			continue
		}
		data.MilesDriven = Number(data.DistanceFromLast * MilesPerKm)
		data.AvgMilesPerDay = Number(float64(data.MilesDriven) / days)

		data.DaysRemaining = make(map[string]Number, len(intervals))
		for _, interval := range intervals {
			data.DaysRemaining[interval.StorageKey] = Number(interval.Miles / float64(data.AvgMilesPerDay))
		}
	}
}
