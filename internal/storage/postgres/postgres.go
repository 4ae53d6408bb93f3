// Package postgres stores battle history in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/turnbattle/internal/config"
)

// ConnectTimeout bounds the ping that verifies a new pool.
const ConnectTimeout = 5 * time.Second

// Pool is the connection pool behind a HistoryRepository.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the history database described by cfg.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a Pool that answered a ping within ConnectTimeout,
// or a non-nil error naming the target.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	target := fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name)

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config for %s: %w", target, err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "turnbattle"

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", target, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging %s: %w", target, err)
	}
	return &Pool{pool: pool}, nil
}

// Open migrates the history schema and returns a repository on a new pool.
//
// Postcondition: on success the caller must call the returned close func.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*HistoryRepository, func(), error) {
	if err := MigrateUp(cfg.DSN()); err != nil {
		return nil, nil, fmt.Errorf("migrating history schema: %w", err)
	}
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewHistoryRepository(pool.DB()), pool.Close, nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
