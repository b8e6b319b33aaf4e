package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"

	"esi-server/internal/shared/config"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DB struct {
	*sql.DB
	Driver string
}

// Placeholder returns the n-th (1-based) bind parameter for the driver.
func (db *DB) Placeholder(n int) string {
	if db.Driver == DriverPostgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func ConnectPostgres(ctx context.Context, cfg *config.Config) (*DB, error) {
	logger := slog.With("component", "database", "operation", "connect", "driver", DriverPostgres)

	logger.Info("Connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"user", cfg.Database.User,
		"database", cfg.Database.Name,
		"sslmode", cfg.Database.SSLMode,
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	sqlDB, err := sql.Open(DriverPostgres, cfg.ConnectionString())
	if err != nil {
		logger.Error("Failed to open database connection",
			"error", err, "host", cfg.Database.Host, "database", cfg.Database.Name)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return ping(ctx, logger, &DB{DB: sqlDB, Driver: DriverPostgres})
}

// OpenSQLite opens a single-file database. ":memory:" is accepted for tests.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	logger := slog.With("component", "database", "operation", "connect", "driver", DriverSQLite, "path", path)
	logger.Info("Opening database")

	sqlDB, err := sql.Open(DriverSQLite, path)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; an in-memory database is also per-connection.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return ping(ctx, logger, &DB{DB: sqlDB, Driver: DriverSQLite})
}

func ping(ctx context.Context, logger *slog.Logger, db *DB) (*DB, error) {
	logger.Debug("Testing database connection with ping")
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close database after ping failure", "close_error", closeErr, "ping_error", err)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully")
	return db, nil
}
