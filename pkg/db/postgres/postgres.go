// Package postgres предоставляет пул соединений pgx и запуск миграций golang-migrate.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"notekeeper/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogConnecting        = "connecting to Postgres database"
	LogConnected         = "successfully connected to Postgres"
	LogClosing           = "closing Postgres connection pool"
	LogMigrationsApplied = "database migrations successfully applied"

	LogMigrationsRolledBack = "database migrations successfully rolled back"
)

// Константы для сообщений об ошибках.
const (
	ErrParseConfig  = "failed to parse connection config"
	ErrCreatePool   = "failed to create connection pool"
	ErrPingDatabase = "failed to ping database"
)

// ErrInvalidPoolSize возвращается, если минимальный размер пула больше максимального.
var ErrInvalidPoolSize = errors.New("min connections exceed max connections")

// DefaultConnectTimeout ограничивает первую проверку соединения.
const DefaultConnectTimeout = 5 * time.Second

// PoolConfig описывает пул соединений. Нулевые значения оставляют настройки pgx.
type PoolConfig struct {
	DSN             string
	MinConns        int
	MaxConns        int
	MaxConnLifetime time.Duration
	ConnectTimeout  time.Duration
}

// Validate проверяет согласованность размеров пула.
func (c PoolConfig) Validate() error {
	if c.MinConns < 0 || c.MaxConns < 0 {
		return fmt.Errorf("%w: negative value", ErrInvalidPoolSize)
	}
	if c.MaxConns > 0 && c.MinConns > c.MaxConns {
		return fmt.Errorf("%w: %d > %d", ErrInvalidPoolSize, c.MinConns, c.MaxConns)
	}
	return nil
}

func (c PoolConfig) apply(poolCfg *pgxpool.Config) {
	if c.MinConns > 0 {
		poolCfg.MinConns = int32(c.MinConns)
	}
	if c.MaxConns > 0 {
		poolCfg.MaxConns = int32(c.MaxConns)
	}
	if c.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = c.MaxConnLifetime
	}
}

// Database хранит пул соединений с Postgres.
type Database struct {
	pool *pgxpool.Pool
}

// New создает пул и проверяет соединение в пределах ConnectTimeout.
func New(ctx context.Context, cfg PoolConfig) (*Database, error) {
	log := logger.Log(ctx).With(
		zap.Int("min_conns", cfg.MinConns),
		zap.Int("max_conns", cfg.MaxConns))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}

	log.Info(ctx, LogConnecting)

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		log.Error(ctx, ErrParseConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrParseConfig, err)
	}
	cfg.apply(poolCfg)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error(ctx, ErrCreatePool, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrCreatePool, err)
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error(ctx, ErrPingDatabase, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrPingDatabase, err)
	}

	log.Info(ctx, LogConnected)
	return &Database{pool: pool}, nil
}

// Pool возвращает пул соединений.
func (db *Database) Pool() *pgxpool.Pool {
	return db.pool
}

// Close закрывает пул. Повторный вызов безопасен.
func (db *Database) Close(ctx context.Context) {
	if db == nil || db.pool == nil {
		return
	}
	logger.Log(ctx).Info(ctx, LogClosing)
	db.pool.Close()
}

func (db *Database) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
