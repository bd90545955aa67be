package models

// MaintenanceInterval 保养间隔
type MaintenanceInterval struct {
	Key        int     `json:"key"`
	Name       string  `json:"name"`
	Message    string  `json:"message"`
	Miles      float64 `json:"miles"`
	StorageKey string  `json:"storage_key"`
}

// 间隔持久化键
const (
	StorageKeyRefuel     = "refuel_interval"
	StorageKeyOilChange  = "oil_change_interval"
	StorageKeyInspection = "inspection_interval"
)

// DefaultIntervals 返回三个固定的保养间隔（默认值）
func DefaultIntervals() []MaintenanceInterval {
	return []MaintenanceInterval{
		{
			Key:        0,
			Name:       "Refuel",
			Message:    "Enter how far a bus can travel before refueling.",
			Miles:      500,
			StorageKey: StorageKeyRefuel,
		},
		{
			Key:        1,
			Name:       "Oil Change",
			Message:    "Enter how far a bus can travel before needing an oil change.",
			Miles:      1000,
			StorageKey: StorageKeyOilChange,
		},
		{
			Key:        2,
			Name:       "Inspection",
			Message:    "Enter how far a bus can travel before needing an inspection.",
			Miles:      2000,
			StorageKey: StorageKeyInspection,
		},
	}
}
