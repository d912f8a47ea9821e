// Package gormstore holds the GORM-backed record stores. The same
// repositories run on PostgreSQL in production and on SQLite locally.
package gormstore

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cafeadmin/config"
	"cafeadmin/internal/infra/persistence/model"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	pingTimeout                 = 10 * time.Second
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured database and ties its pool to the app lifecycle
func New(params Params) (*gorm.DB, error) {
	db, err := Open(params.Config, params.Logger)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, pingTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrapf(err, "failed to ping %s", params.Config.Store.Driver)
			}

			go monitorDBPool(monitorCtx, params.Logger, sqlDB, dbPoolMonitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// Open connects without lifecycle hooks and migrates the schema when asked to.
func Open(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		dialector = postgres.Open(cfg.Store.DSN)
	case config.StoreDriverSQLite:
		if err := ensureSQLiteDir(cfg.Store.DSN); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(cfg.Store.DSN)
	default:
		return nil, errors.Errorf("store driver %q is not backed by a database", cfg.Store.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		// Every repository call is a single statement; the cafe service
		// compensates by hand instead of wrapping steps in a transaction.
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 newGormSlogLogger(logger, cfg),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", cfg.Store.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}
	if cfg.Store.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Store.MaxOpenConns)
	}
	if cfg.Store.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Store.MaxIdleConns)
	}
	if cfg.Store.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Store.ConnMaxLifetime)
	}

	if cfg.Store.AutoMigrate {
		if err := db.AutoMigrate(&model.CafeModel{}, &model.CafeImageModel{}); err != nil {
			_ = sqlDB.Close()

			return nil, errors.Wrap(err, "failed to migrate schema")
		}
	}

	return db, nil
}

// ensureSQLiteDir creates the parent directory of a plain file DSN
func ensureSQLiteDir(dsn string) error {
	if dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}

	return errors.Wrapf(os.MkdirAll(dir, 0o755), "create sqlite dir %s", dir)
}

func monitorDBPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	if logger == nil || sqlDB == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			waitDelta := cur.WaitCount - prev.WaitCount
			waitDurationDelta := cur.WaitDuration - prev.WaitDuration

			if waitDelta > 0 {
				attrs := []slog.Attr{
					slog.Int64("waitCountDelta", waitDelta),
					slog.Duration("waitDurationDelta", waitDurationDelta),
					slog.Duration("avgWait", waitDurationDelta/time.Duration(waitDelta)),
					slog.Int("openConns", cur.OpenConnections),
					slog.Int("inUseConns", cur.InUse),
					slog.Int("idleConns", cur.Idle),
				}
				if waitDurationDelta >= dbPoolWarnDurationThreshold {
					logger.LogAttrs(ctx, slog.LevelWarn, "Database pool wait detected", attrs...)
				} else {
					logger.LogAttrs(ctx, slog.LevelDebug, "Database pool wait observed", attrs...)
				}
			}

			prev = cur
		}
	}
}
