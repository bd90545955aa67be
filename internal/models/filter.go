package models

import (
	"fmt"
	"math"
	"time"
)

// 日期/时间格式
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// ClockTime 一天中的时刻（距零点的时长）
type ClockTime time.Duration

// ParseClockTime 解析 HH:MM:SS
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parse clock time %q: %w", s, err)
	}
	d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
	return ClockTime(d), nil
}

// String 格式化为 HH:MM:SS
func (c ClockTime) String() string {
	total := int64(time.Duration(c) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

// MarshalJSON 以 HH:MM:SS 字符串输出
func (c ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// DataFilter 当前报表窗口
type DataFilter struct {
	MinDate time.Time `json:"min_date"`
	MaxDate time.Time `json:"max_date"`
	MinTime ClockTime `json:"min_time"`
	MaxTime ClockTime `json:"max_time"`
	Routes  []int64   `json:"routes"`
	Buses   []int64   `json:"buses"`
}

// NumDays 筛选范围内的天数（含首尾）
func (f *DataFilter) NumDays() int {
	return DaysBetween(f.MinDate, f.MaxDate) + 1
}

// IncludesRoute 线路是否在筛选范围内
func (f *DataFilter) IncludesRoute(id int64) bool {
	return containsID(f.Routes, id)
}

// IncludesBus 车辆是否在筛选范围内
func (f *DataFilter) IncludesBus(id int64) bool {
	return containsID(f.Buses, id)
}

// DaysBetween 两个日期之间相差的自然日数
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
