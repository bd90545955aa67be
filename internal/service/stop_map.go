package service

import (
	"context"
	"fmt"
	"math"

	"github.com/ninerlytics/transit-dashboard/internal/fleet"
	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// StopMarker 地图上的站点标记
type StopMarker struct {
	models.StopValue
	Relative fleet.Number `json:"relative"`
	Color    string       `json:"color"`
}

// StopMap 站点地图数据
type StopMap struct {
	View     models.MapView     `json:"view"`
	DataType models.MapDataType `json:"data_type"`
	Stops    []StopMarker       `json:"stops"`
}

// StopMap 按数据类型生成站点地图，filter 为 nil 时所有站点的值为 0
func (s *DashboardService) StopMap(ctx context.Context, filter *models.DataFilter, dataType models.MapDataType) (*StopMap, error) {
	if !dataType.IsValid() {
		return nil, fmt.Errorf("unknown map data type %q", dataType)
	}

	stops, err := s.stops.ListWithValues(ctx, filter, dataType)
	if err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}

	minValue, maxValue := math.Inf(1), math.Inf(-1)
	for _, stop := range stops {
		minValue = math.Min(minValue, stop.Value)
		maxValue = math.Max(maxValue, stop.Value)
	}

	markers := make([]StopMarker, 0, len(stops))
	for _, stop := range stops {
		relative := (stop.Value - minValue) / (maxValue - minValue)
		markers = append(markers, StopMarker{
			StopValue: stop,
			Relative:  fleet.Number(relative),
			Color:     fleet.IntensityGradient.ColorAt(relative),
		})
	}

	return &StopMap{
		View:     s.mapView,
		DataType: dataType,
		Stops:    markers,
	}, nil
}
