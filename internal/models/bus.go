package models

// Bus 公交车辆
type Bus struct {
	ID   int64  `json:"id" db:"id"`
	Code string `json:"code" db:"code"` // 车辆编号，按整数排序
}

// BusStatistics 统计周期内单车汇总数据
type BusStatistics struct {
	ID               int64   `json:"id" db:"bus_id"`
	NumTimesStopped  int64   `json:"num_times_stopped" db:"num_times_stopped"`
	TotalPeopleOn    int64   `json:"total_people_on" db:"total_people_on"`
	TotalPeopleOff   int64   `json:"total_people_off" db:"total_people_off"`
	DistanceFromLast float64 `json:"distance_from_last" db:"distance_from_last"` // km
}

// Route 线路
type Route struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
