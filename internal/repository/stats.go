package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// StatsRepository 到站记录聚合
type StatsRepository struct {
	db *DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Aggregate 统计筛选范围内每辆车的到站次数、上下客人数与行驶距离
func (r *StatsRepository) Aggregate(ctx context.Context, f *models.DataFilter) ([]models.BusStatistics, error) {
	where, args := filterClause(f)
	query := `
		SELECT bus_id,
			COUNT(*) AS num_times_stopped,
			COALESCE(SUM(people_on), 0) AS total_people_on,
			COALESCE(SUM(people_off), 0) AS total_people_off,
			COALESCE(SUM(distance_from_last), 0) AS distance_from_last
		FROM stop_events
		WHERE ` + where + `
		GROUP BY bus_id
		ORDER BY bus_id
	`
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate bus stats: %w", err)
	}
	defer rows.Close()

	stats := []models.BusStatistics{}
	for rows.Next() {
		var s models.BusStatistics
		err := rows.Scan(
			&s.ID,
			&s.NumTimesStopped,
			&s.TotalPeopleOn,
			&s.TotalPeopleOff,
			&s.DistanceFromLast,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bus stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bus stats: %w", err)
	}

	return stats, nil
}

// filterClause 生成 stop_events 的筛选条件
// 日期按 observed_at 的日期（含首尾），时刻按 observed_at 的一天内时间
func filterClause(f *models.DataFilter) (string, []interface{}) {
	conds := []string{
		"observed_at::date BETWEEN $1 AND $2",
		"observed_at::time BETWEEN $3 AND $4",
	}
	args := []interface{}{
		f.MinDate.Format(models.DateLayout),
		f.MaxDate.Format(models.DateLayout),
		f.MinTime.String(),
		f.MaxTime.String(),
	}

	if len(f.Routes) > 0 {
		args = append(args, f.Routes)
		conds = append(conds, fmt.Sprintf("route_id = ANY($%d)", len(args)))
	}
	if len(f.Buses) > 0 {
		args = append(args, f.Buses)
		conds = append(conds, fmt.Sprintf("bus_id = ANY($%d)", len(args)))
	}

	return strings.Join(conds, " AND "), args
}
