package system

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"esi-server/internal/esi"
	"esi-server/internal/shared/retry"
)

var tracer = otel.Tracer("esi-server/internal/system")

type Fetcher interface {
	System(ctx context.Context, systemID int) (*esi.SystemInfo, error)
}

// PlanetCacher makes sure a planet document is cached.
type PlanetCacher interface {
	EnsureCached(ctx context.Context, planetID int) error
}

type Service struct {
	repo    *Repository
	fetcher Fetcher
	planets PlanetCacher
	retrier *retry.Retrier
	logger  *slog.Logger
}

func NewService(repo *Repository, fetcher Fetcher, planets PlanetCacher, retrier *retry.Retrier, logger *slog.Logger) *Service {
	logger.Debug("Initializing system service")

	return &Service{
		repo:    repo,
		fetcher: fetcher,
		planets: planets,
		retrier: retrier,
		logger:  logger,
	}
}

// Ingest makes sure the system info and, when freshly fetched, all of its
// planets are cached. A system whose info is already cached is left alone,
// even if some of its planets never made it into the cache.
func (s *Service) Ingest(ctx context.Context, systemID int) Outcome {
	ctx, span := tracer.Start(ctx, "system.Ingest", trace.WithAttributes(attribute.Int("esi.system_id", systemID)))
	defer span.End()

	logger := s.logger.With("component", "system_service", "operation", "ingest", "system_id", systemID)

	if _, ok := s.repo.GetInfo(ctx, systemID); ok {
		span.SetAttributes(attribute.String("ingest.outcome", string(OutcomeCached)))
		return OutcomeCached
	}

	info, err := retry.Do(ctx, s.retrier, func() (*Info, error) {
		return s.fetcher.System(ctx, systemID)
	})
	if err != nil {
		logger.Error("Failed to fetch system, skipping", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "system fetch failed")
		return OutcomeFailed
	}

	if IsWormhole(info.Name) {
		logger.Debug("Wormhole system, not caching", "name", info.Name)
		span.SetAttributes(attribute.String("ingest.outcome", string(OutcomeWormhole)))
		return OutcomeWormhole
	}

	s.repo.SaveInfo(ctx, systemID, info)
	failed := s.ingestPlanets(ctx, systemID, info.Planets)

	logger.Info("System ingested",
		"name", info.Name,
		"planets", len(info.Planets),
		"planet_failures", failed)
	span.SetAttributes(
		attribute.String("ingest.outcome", string(OutcomeIngested)),
		attribute.Int("ingest.planets", len(info.Planets)),
		attribute.Int("ingest.planet_failures", failed),
	)
	return OutcomeIngested
}

// ingestPlanets caches every referenced planet concurrently. One planet
// failing does not stop its siblings; failures are logged and counted.
func (s *Service) ingestPlanets(ctx context.Context, systemID int, refs []esi.PlanetRef) int {
	logger := s.logger.With("component", "system_service", "operation", "ingest_planets", "system_id", systemID)

	var failed atomic.Int32
	var g errgroup.Group
	for _, ref := range refs {
		g.Go(func() error {
			if err := s.planets.EnsureCached(ctx, ref.PlanetID); err != nil {
				failed.Add(1)
				logger.Error("Failed to cache planet", "planet_id", ref.PlanetID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(failed.Load())
}

// RecordKills overwrites the system's kills snapshot.
func (s *Service) RecordKills(ctx context.Context, kills esi.SystemKill) bool {
	return s.repo.SaveKills(ctx, kills.SystemID, kills)
}

// RecordJumps overwrites the system's jumps snapshot.
func (s *Service) RecordJumps(ctx context.Context, jumps esi.SystemJump) bool {
	return s.repo.SaveJumps(ctx, jumps.SystemID, jumps)
}

// ListCombined joins every cached system with its latest kills and jumps.
// Missing snapshots count as zero. Order follows the cache's enumeration.
func (s *Service) ListCombined(ctx context.Context) ([]CombinedSystem, error) {
	ctx, span := tracer.Start(ctx, "system.ListCombined")
	defer span.End()

	infos, err := s.repo.ListInfos(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return nil, err
	}

	combined := make([]CombinedSystem, 0, len(infos))
	for _, info := range infos {
		c := CombinedSystem{Info: info}

		if jumps, ok := s.repo.GetJumps(ctx, info.SystemID); ok {
			c.ShipJumps = jumps.ShipJumps
		}
		if kills, ok := s.repo.GetKills(ctx, info.SystemID); ok {
			c.NPCKills = kills.NPCKills
			c.PodKills = kills.PodKills
			c.ShipKills = kills.ShipKills
		}

		combined = append(combined, c)
	}

	span.SetAttributes(attribute.Int("systems", len(combined)))
	return combined, nil
}
