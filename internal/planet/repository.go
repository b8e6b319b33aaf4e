package planet

import (
	"context"
	"log/slog"

	"esi-server/internal/cache"
)

// Repository reads and writes planet documents. Storage failures are logged
// and reported as a miss or a dropped write; they never reach the caller.
type Repository struct {
	store  cache.Store
	logger *slog.Logger
}

func NewRepository(store cache.Store, logger *slog.Logger) *Repository {
	logger.Debug("Initializing planet repository")

	return &Repository{
		store:  store,
		logger: logger,
	}
}

func (r *Repository) GetPlanet(ctx context.Context, planetID int) (*Planet, bool) {
	key := cache.PlanetInfoKey(planetID)

	var p Planet
	found, err := cache.Load(ctx, r.store, key, &p)
	if err != nil {
		r.logger.Error("Failed to read planet, treating as missing",
			"component", "planet_repository",
			"operation", "get_planet",
			"key", key,
			"error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &p, true
}

func (r *Repository) SavePlanet(ctx context.Context, planetID int, p *Planet) bool {
	key := cache.PlanetInfoKey(planetID)

	if err := cache.Save(ctx, r.store, key, p); err != nil {
		r.logger.Error("Failed to save planet, write dropped",
			"component", "planet_repository",
			"operation", "save_planet",
			"key", key,
			"error", err)
		return false
	}
	return true
}
