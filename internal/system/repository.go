package system

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"esi-server/internal/cache"
	"esi-server/internal/esi"
)

// Repository maps systems and their activity snapshots onto cache keys.
// Point reads and writes soft-fail: errors are logged and reported as a miss
// or a dropped write.
type Repository struct {
	store  cache.Store
	logger *slog.Logger
}

func NewRepository(store cache.Store, logger *slog.Logger) *Repository {
	logger.Debug("Initializing system repository")

	return &Repository{
		store:  store,
		logger: logger.With("component", "system_repository"),
	}
}

func (r *Repository) GetInfo(ctx context.Context, systemID int) (*Info, bool) {
	var info Info
	if !r.load(ctx, "get_info", cache.SystemInfoKey(systemID), &info) {
		return nil, false
	}
	return &info, true
}

func (r *Repository) SaveInfo(ctx context.Context, systemID int, info *Info) bool {
	return r.save(ctx, "save_info", cache.SystemInfoKey(systemID), info)
}

func (r *Repository) GetKills(ctx context.Context, systemID int) (*esi.SystemKill, bool) {
	var kills esi.SystemKill
	if !r.load(ctx, "get_kills", cache.KillsKey(systemID), &kills) {
		return nil, false
	}
	return &kills, true
}

func (r *Repository) SaveKills(ctx context.Context, systemID int, kills esi.SystemKill) bool {
	return r.save(ctx, "save_kills", cache.KillsKey(systemID), kills)
}

func (r *Repository) GetJumps(ctx context.Context, systemID int) (*esi.SystemJump, bool) {
	var jumps esi.SystemJump
	if !r.load(ctx, "get_jumps", cache.JumpsKey(systemID), &jumps) {
		return nil, false
	}
	return &jumps, true
}

func (r *Repository) SaveJumps(ctx context.Context, systemID int, jumps esi.SystemJump) bool {
	return r.save(ctx, "save_jumps", cache.JumpsKey(systemID), jumps)
}

// ListInfos returns every cached system info. Unlike point reads, a storage
// failure here is returned to the caller.
func (r *Repository) ListInfos(ctx context.Context) ([]Info, error) {
	logger := r.logger.With("operation", "list_infos")

	entries, err := r.store.Scan(ctx, cache.SuffixSystemInfo)
	if err != nil {
		logger.Error("Failed to scan system infos", "error", err)
		return nil, fmt.Errorf("failed to scan system infos: %w", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		var info Info
		if err := json.Unmarshal(entry.Value, &info); err != nil {
			logger.Warn("Skipping undecodable system info", "key", entry.Key, "error", err)
			continue
		}
		infos = append(infos, info)
	}

	logger.Debug("System infos listed", "count", len(infos))
	return infos, nil
}

func (r *Repository) load(ctx context.Context, operation, key string, out any) bool {
	found, err := cache.Load(ctx, r.store, key, out)
	if err != nil {
		r.logger.Error("Failed to read cache entry, treating as missing",
			"operation", operation, "key", key, "error", err)
		return false
	}
	return found
}

func (r *Repository) save(ctx context.Context, operation, key string, v any) bool {
	if err := cache.Save(ctx, r.store, key, v); err != nil {
		r.logger.Error("Failed to write cache entry, write dropped",
			"operation", operation, "key", key, "error", err)
		return false
	}
	return true
}
