package cache

import (
	"context"
	"fmt"
	"log/slog"

	"esi-server/internal/shared/config"
	"esi-server/internal/shared/database"
	sharedredis "esi-server/internal/shared/redis"
)

// Open connects the backend selected by CACHE_BACKEND. The caller owns the
// returned store and must Close it on shutdown.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, error) {
	logger = logger.With("component", "cache", "operation", "open", "backend", cfg.Cache.Backend)

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client, err := sharedredis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client.Client, logger), nil

	case config.CacheBackendPostgres:
		db, err := database.ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return migrated(ctx, db, logger)

	case config.CacheBackendSQLite:
		db, err := database.OpenSQLite(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		return migrated(ctx, db, logger)

	case config.CacheBackendMemory:
		logger.Warn("Using in-memory cache, data will not survive a restart")
		return NewMemoryStore(), nil
	}

	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

func migrated(ctx context.Context, db *database.DB, logger *slog.Logger) (Store, error) {
	if err := db.RunMigrations(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close database after migration failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return NewSQLStore(db, logger), nil
}
