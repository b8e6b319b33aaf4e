package planet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"esi-server/internal/esi"
	apperrors "esi-server/internal/shared/errors"
	"esi-server/internal/shared/retry"
)

type Fetcher interface {
	Planet(ctx context.Context, planetID int) (*esi.PlanetInfo, error)
}

type Service struct {
	repo    *Repository
	fetcher Fetcher
	retrier *retry.Retrier
	logger  *slog.Logger
}

func NewService(repo *Repository, fetcher Fetcher, retrier *retry.Retrier, logger *slog.Logger) *Service {
	logger.Debug("Initializing planet service")

	return &Service{
		repo:    repo,
		fetcher: fetcher,
		retrier: retrier,
		logger:  logger,
	}
}

// Get returns the cached planet or fetches it once from ESI and caches it.
// Unlike EnsureCached this path makes a single attempt.
func (s *Service) Get(ctx context.Context, planetID int) (*Planet, error) {
	logger := s.logger.With("component", "planet_service", "operation", "get", "planet_id", planetID)

	if p, ok := s.repo.GetPlanet(ctx, planetID); ok {
		logger.Debug("Planet served from cache")
		return p, nil
	}

	p, err := s.fetcher.Planet(ctx, planetID)
	if err != nil {
		var statusErr *esi.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, apperrors.NotFoundf("planet %d not found", planetID)
		}
		return nil, apperrors.WrapExternal("failed to fetch planet from ESI", err)
	}

	s.repo.SavePlanet(ctx, planetID, p)
	logger.Debug("Planet fetched and cached")
	return p, nil
}

// EnsureCached fetches a planet through the retry policy unless it is already
// cached. An entry written concurrently while fetching is left untouched.
func (s *Service) EnsureCached(ctx context.Context, planetID int) error {
	if _, ok := s.repo.GetPlanet(ctx, planetID); ok {
		return nil
	}

	p, err := retry.Do(ctx, s.retrier, func() (*Planet, error) {
		return s.fetcher.Planet(ctx, planetID)
	})
	if err != nil {
		return fmt.Errorf("failed to fetch planet %d: %w", planetID, err)
	}

	if _, ok := s.repo.GetPlanet(ctx, planetID); ok {
		return nil
	}

	s.repo.SavePlanet(ctx, planetID, p)
	return nil
}
