// Package db owns the process-wide Postgres connection pool.
// The pool is opened lazily on first use and shared by every repository.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/singleflight"

	envcfg "privatelives/pkg/config"
)

// ErrNotConfigured is returned by Provider.DB when no DSN was supplied.
var ErrNotConfigured = errors.New("DATABASE_URL not set")

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the pool settings used when env does not override them.
// Serverless-sized: few connections, short idle time.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// ConnectionConfigFromEnv reads DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS,
// DB_CONN_MAX_LIFETIME and DB_CONN_MAX_IDLE_TIME. Non-positive values keep the default.
func ConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()
	if v := envcfg.GetEnvInt("DB_MAX_OPEN_CONNS", 0); v > 0 {
		cfg.MaxOpenConns = v
	}
	if v := envcfg.GetEnvInt("DB_MAX_IDLE_CONNS", 0); v > 0 {
		cfg.MaxIdleConns = v
	}
	cfg.ConnMaxLifetime = envcfg.GetEnvDuration("DB_CONN_MAX_LIFETIME", cfg.ConnMaxLifetime)
	cfg.ConnMaxIdleTime = envcfg.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime)
	return cfg
}

// Provider is the single acquisition point for the pool.
//
// The first successful DB call opens, pings and migrates the pool; later calls
// return the same *sql.DB. Concurrent first calls share one attempt. A failed
// attempt is not remembered, so the next request tries again.
type Provider struct {
	dsn     string
	cfg     ConnectionConfig
	openFn  func(driver, dsn string) (*sql.DB, error)
	migrate func(ctx context.Context, db *sql.DB) error

	mu    sync.RWMutex
	db    *sql.DB
	group singleflight.Group
}

// NewProvider returns a lazy provider for dsn. An empty dsn is allowed:
// DB then fails with ErrNotConfigured and only database-backed endpoints are affected.
func NewProvider(dsn string, cfg ConnectionConfig) *Provider {
	return &Provider{
		dsn:     dsn,
		cfg:     cfg,
		openFn:  sql.Open,
		migrate: MigrateUp,
	}
}

// Static wraps an already opened pool. Used by tests and tools that manage the pool themselves.
func Static(db *sql.DB) *Provider {
	return &Provider{db: db}
}

// Configured reports whether a DSN or pool is available.
func (p *Provider) Configured() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.db != nil || p.dsn != ""
}

// DB returns the shared pool, opening it on first use.
func (p *Provider) DB(ctx context.Context) (*sql.DB, error) {
	p.mu.RLock()
	db := p.db
	p.mu.RUnlock()
	if db != nil {
		return db, nil
	}
	if p.dsn == "" {
		return nil, ErrNotConfigured
	}

	v, err, _ := p.group.Do("open", func() (interface{}, error) {
		p.mu.RLock()
		existing := p.db
		p.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		// The attempt is shared, so it must not die with the first caller's request.
		openCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		opened, err := p.open(openCtx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.db = opened
		p.mu.Unlock()
		return opened, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sql.DB), nil
}

func (p *Provider) open(ctx context.Context) (*sql.DB, error) {
	db, err := p.openFn("pgx", p.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(p.cfg.MaxOpenConns)
	db.SetMaxIdleConns(p.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(p.cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(p.cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if p.migrate != nil {
		if err := p.migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	slog.Info("database connection pool established",
		slog.Int("max_open_conns", p.cfg.MaxOpenConns),
		slog.Int("max_idle_conns", p.cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", p.cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", p.cfg.ConnMaxIdleTime))
	return db, nil
}

// Close closes the pool if it was opened. It is only called on process shutdown.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
