package repository

import (
	"context"
	"fmt"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// StopRepository 站点数据仓库
type StopRepository struct {
	db *DB
}

// NewStopRepository 创建站点仓库
func NewStopRepository(db *DB) *StopRepository {
	return &StopRepository{db: db}
}

// valueColumns 地图数据类型对应的聚合表达式
var valueColumns = map[models.MapDataType]string{
	models.MapDataStops:     "COUNT(e.id)",
	models.MapDataPeopleOn:  "COALESCE(SUM(e.people_on), 0)",
	models.MapDataPeopleOff: "COALESCE(SUM(e.people_off), 0)",
}

// ListWithValues 获取所有站点及筛选范围内的聚合值，filter 为 nil 时值为 0
func (r *StopRepository) ListWithValues(ctx context.Context, f *models.DataFilter, dataType models.MapDataType) ([]models.StopValue, error) {
	column, ok := valueColumns[dataType]
	if !ok {
		return nil, fmt.Errorf("unknown map data type %q", dataType)
	}

	join := "LEFT JOIN stop_events e ON FALSE"
	var args []interface{}
	if f != nil {
		var where string
		where, args = filterClause(f)
		join = "LEFT JOIN stop_events e ON e.stop_id = s.id AND " + where
	}

	query := `
		SELECT s.id, s.name, s.latitude, s.longitude, ` + column + `::DOUBLE PRECISION AS value
		FROM stops s
		` + join + `
		GROUP BY s.id
		ORDER BY s.id
	`
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stops: %w", err)
	}
	defer rows.Close()

	stops := []models.StopValue{}
	for rows.Next() {
		var s models.StopValue
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.Value); err != nil {
			return nil, fmt.Errorf("scan stop: %w", err)
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stops: %w", err)
	}

	return stops, nil
}
