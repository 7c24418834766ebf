// Package db manages the primary/replica PostgreSQL connection pool pair.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config captures pool sizing and timeouts for one side of the pair.
type Config struct {
	DSN              string
	MinConns         int32
	MaxConns         int32
	IdleTimeout      time.Duration
	ConnectTimeout   time.Duration
	StatementTimeout time.Duration
}

// DB owns the two pooled connections. Primary serves all writes, Replica
// serves reads and may lag behind the primary.
type DB struct {
	Primary *pgxpool.Pool
	Replica *pgxpool.Pool

	logger *slog.Logger
}

// New builds both pools and returns an error if either cannot be constructed.
func New(ctx context.Context, primary, replica Config, logger *slog.Logger) (*DB, error) {
	primaryPool, err := newPool(ctx, primary, "primary", logger)
	if err != nil {
		return nil, fmt.Errorf("platform/db: primary pool: %w", err)
	}

	replicaPool, err := newPool(ctx, replica, "replica", logger)
	if err != nil {
		primaryPool.Close()
		return nil, fmt.Errorf("platform/db: replica pool: %w", err)
	}

	return &DB{Primary: primaryPool, Replica: replicaPool, logger: logger}, nil
}

func newPool(ctx context.Context, cfg Config, role string, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := newPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	poolCfg.AfterConnect = func(_ context.Context, _ *pgx.Conn) error {
		logger.Info("new database connection", slog.String("role", role))
		return nil
	}

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

func newPoolConfig(cfg Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MaxConnIdleTime = cfg.IdleTimeout
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	if cfg.StatementTimeout > 0 {
		poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	return poolCfg, nil
}

// TestConnections runs a liveness query on both pools. It succeeds only when
// primary and replica both respond.
func (d *DB) TestConnections(ctx context.Context) error {
	var now time.Time
	if err := d.Primary.QueryRow(ctx, `SELECT now()`).Scan(&now); err != nil {
		return fmt.Errorf("platform/db: primary liveness: %w", err)
	}
	if err := d.Replica.QueryRow(ctx, `SELECT now()`).Scan(&now); err != nil {
		return fmt.Errorf("platform/db: replica liveness: %w", err)
	}
	return nil
}

// Close releases both pools. pgxpool blocks until acquired connections are
// returned, so in-flight queries drain before this returns. Close never
// propagates errors; shutdown must always complete.
func (d *DB) Close() {
	d.logger.Info("closing database pools")
	d.Primary.Close()
	d.Replica.Close()
	d.logger.Info("database pools closed")
}
