package models

// Stop 站点
type Stop struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// StopValue 站点及其在筛选范围内的聚合值
type StopValue struct {
	Stop
	Value float64 `json:"value" db:"value"`
}

// MapDataType 站点地图展示的数据类型
type MapDataType string

const (
	MapDataStops     MapDataType = "num_times_stopped"
	MapDataPeopleOn  MapDataType = "total_people_on"
	MapDataPeopleOff MapDataType = "total_people_off"
)

// DefaultMapDataType 未指定时使用的数据类型
const DefaultMapDataType = MapDataStops

// IsValid 检查数据类型是否合法
func (t MapDataType) IsValid() bool {
	switch t {
	case MapDataStops, MapDataPeopleOn, MapDataPeopleOff:
		return true
	default:
		return false
	}
}

// MapView 地图视图配置
type MapView struct {
	Center  [2]float64    `json:"center"`
	Zoom    int           `json:"zoom"`
	MinZoom int           `json:"min_zoom"`
	MaxZoom int           `json:"max_zoom"`
	Bounds  [2][2]float64 `json:"max_bounds"`
	TileURL string        `json:"tile_url"`
}
