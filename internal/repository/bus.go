package repository

import (
	"context"
	"fmt"

	"github.com/ninerlytics/transit-dashboard/internal/models"
)

// BusRepository 车辆数据仓库
type BusRepository struct {
	db *DB
}

// NewBusRepository 创建车辆仓库
func NewBusRepository(db *DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create 创建车辆
func (r *BusRepository) Create(ctx context.Context, bus *models.Bus) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO buses (code) VALUES ($1) RETURNING id`,
		bus.Code,
	).Scan(&bus.ID)
	if err != nil {
		return fmt.Errorf("insert bus: %w", err)
	}
	return nil
}

// List 获取所有车辆
func (r *BusRepository) List(ctx context.Context) ([]models.Bus, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, code FROM buses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list buses: %w", err)
	}
	defer rows.Close()

	buses := []models.Bus{}
	for rows.Next() {
		var bus models.Bus
		if err := rows.Scan(&bus.ID, &bus.Code); err != nil {
			return nil, fmt.Errorf("scan bus: %w", err)
		}
		buses = append(buses, bus)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buses: %w", err)
	}

	return buses, nil
}

// RouteRepository 线路数据仓库
type RouteRepository struct {
	db *DB
}

// NewRouteRepository 创建线路仓库
func NewRouteRepository(db *DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// List 获取所有线路
func (r *RouteRepository) List(ctx context.Context) ([]models.Route, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name FROM routes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	routes := []models.Route{}
	for rows.Next() {
		var route models.Route
		if err := rows.Scan(&route.ID, &route.Name); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routes: %w", err)
	}

	return routes, nil
}
