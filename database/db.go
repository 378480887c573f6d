package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/container/errors"
	"github.com/kbukum/container/logger"
	"github.com/kbukum/container/resilience"
)

const maxRetryBackoff = 30 * time.Second

// DB wraps a GORM database. It satisfies container.DatabaseHandle.
type DB struct {
	GormDB *gorm.DB
	log    *logger.Logger
	cfg    Config
	closed bool
	mu     sync.Mutex
}

// Open builds the dialector for cfg.Driver and connects.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	d, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithContext(ctx, d, cfg, log)
}

// NewWithContext connects through dialector, retrying with exponential
// backoff up to cfg.MaxRetries attempts, and configures the connection pool.
// Cancelling ctx aborts the retry loop.
func NewWithContext(ctx context.Context, dialector gorm.Dialector, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	log = log.WithFields(logger.Fields("database", cfg.Name, "driver", cfg.Driver))

	gormCfg := &gorm.Config{
		Logger: newGormLogger(log, cfg.duration(cfg.SlowQueryThreshold), parseLogLevel(cfg.LogLevel)),
	}
	retry := resilience.RetryConfig{
		MaxAttempts:    cfg.MaxRetries,
		InitialBackoff: cfg.duration(cfg.RetryBackoff),
		MaxBackoff:     maxRetryBackoff,
		BackoffFactor:  2,
		Jitter:         0.1,
		OnRetry: func(attempt int, err error, wait time.Duration) {
			log.Warn("Database connection attempt failed, retrying", logger.Fields(
				"attempt", attempt, logger.FieldError, err.Error(), "backoff", wait.String(),
			))
		},
	}

	db, err := resilience.Retry(ctx, retry, func() (*DB, error) {
		return connect(ctx, dialector, gormCfg, cfg)
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("database connection canceled: %w", ctxErr)
		}
		return nil, apperrors.ConnectionFailed("database "+cfg.Name).
			WithCause(fmt.Errorf("after %d attempts: %w", cfg.MaxRetries, err))
	}

	db.log = log
	log.Info("Database connection established")
	return db, nil
}

func connect(ctx context.Context, dialector gorm.Dialector, gormCfg *gorm.Config, cfg Config) (*DB, error) {
	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.duration(cfg.ConnMaxLifetime))
	if idle := cfg.duration(cfg.ConnMaxIdleTime); idle > 0 {
		sqlDB.SetConnMaxIdleTime(idle)
	}
	return &DB{GormDB: gdb, cfg: cfg}, nil
}

// Name returns the configured database name.
func (d *DB) Name() string { return d.cfg.Name }

// SQL returns the underlying *sql.DB.
func (d *DB) SQL() (*sql.DB, error) { return d.GormDB.DB() }

// Close closes the connection pool. Safe to call multiple times.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	d.closed = true
	d.log.Info("Closing database connection")
	return sqlDB.Close()
}

// PingContext verifies the connection is alive.
func (d *DB) PingContext(ctx context.Context) error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return apperrors.ServiceUnavailable("database " + d.cfg.Name)
	}

	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Stats returns connection pool statistics.
func (d *DB) Stats() sql.DBStats {
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}

// WithContext returns a GORM session scoped to ctx.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.GormDB.WithContext(ctx)
}

// Exec runs a raw statement and returns the number of affected rows.
func (d *DB) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res := d.GormDB.WithContext(ctx).Exec(query, args...)
	if res.Error != nil {
		return 0, FromDatabase(res.Error, "statement")
	}
	return res.RowsAffected, nil
}

// Transaction runs fn in a transaction bound to ctx. A returned error or a
// panic rolls it back.
func (d *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.GormDB.WithContext(ctx).Transaction(fn)
}
