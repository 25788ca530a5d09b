package conn

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/mstgnz/gopos/infra/logger"
)

const (
	connectAttempts = 5
	retryDelay      = 2 * time.Second
)

// DB wraps the catalog database handle
type DB struct {
	*sql.DB
	Driver string
}

// Open connects to the database, retrying while it comes up. driver is
// "sqlite3" or "postgres".
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		database, err := sql.Open(driver, dsn)
		if err == nil {
			configurePool(database, driver)

			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = database.PingContext(pingCtx)
			cancel()
			if err == nil {
				logger.Info("DB connected", logger.LogContext{Fields: map[string]any{"driver": driver}})
				return &DB{DB: database, Driver: driver}, nil
			}
			database.Close()
		}

		lastErr = err
		logger.Warn("DB connection attempt failed", logger.LogContext{Fields: map[string]any{
			"driver":  driver,
			"attempt": attempt,
			"error":   err.Error(),
		}})

		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("connect %s after %d attempts: %w", driver, connectAttempts, lastErr)
}

func configurePool(database *sql.DB, driver string) {
	if driver == "sqlite3" {
		// a single writer avoids SQLITE_BUSY and keeps :memory: databases shared
		database.SetMaxOpenConns(1)
		return
	}
	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(5 * time.Minute)
	database.SetConnMaxIdleTime(2 * time.Minute)
}

// Close closes the connection
func (db *DB) Close() error {
	if err := db.DB.Close(); err != nil {
		logger.Error("Failed to close database connection", err)
		return err
	}
	logger.Info("DB connection closed")
	return nil
}
