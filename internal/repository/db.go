package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB 数据库连接池封装
type DB struct {
	Pool *pgxpool.Pool
}

// New 创建数据库连接
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// 连接池配置
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// 测试连接
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close 关闭连接池
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate 执行数据库迁移
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateRoutes,
		migrationCreateBuses,
		migrationCreateStops,
		migrationCreateStopEvents,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// 数据库迁移 SQL
const migrationCreateRoutes = `
CREATE TABLE IF NOT EXISTS routes (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL
);
`

const migrationCreateBuses = `
CREATE TABLE IF NOT EXISTS buses (
    id BIGSERIAL PRIMARY KEY,
    code VARCHAR(50) NOT NULL UNIQUE
);
`

const migrationCreateStops = `
CREATE TABLE IF NOT EXISTS stops (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    latitude DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL
);
`

// 每次到站一条记录，distance_from_last 为距上一次记录的行驶距离 (km)
const migrationCreateStopEvents = `
CREATE TABLE IF NOT EXISTS stop_events (
    id BIGSERIAL PRIMARY KEY,
    bus_id BIGINT NOT NULL REFERENCES buses(id),
    route_id BIGINT REFERENCES routes(id),
    stop_id BIGINT REFERENCES stops(id),
    observed_at TIMESTAMP WITH TIME ZONE NOT NULL,
    people_on INT NOT NULL DEFAULT 0,
    people_off INT NOT NULL DEFAULT 0,
    distance_from_last DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_stop_events_bus_id ON stop_events(bus_id);
CREATE INDEX IF NOT EXISTS idx_stop_events_stop_id ON stop_events(stop_id);
CREATE INDEX IF NOT EXISTS idx_stop_events_observed_at ON stop_events(observed_at);
`
