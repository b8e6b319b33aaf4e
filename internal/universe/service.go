package universe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"esi-server/internal/esi"
	"esi-server/internal/system"
)

var tracer = otel.Tracer("esi-server/internal/universe")

// Upstream lists the universe-wide resources a cycle starts from.
type Upstream interface {
	SystemIDs(ctx context.Context) ([]int, error)
	SystemKills(ctx context.Context) ([]esi.SystemKill, error)
	SystemJumps(ctx context.Context) ([]esi.SystemJump, error)
}

type Ingestor interface {
	Ingest(ctx context.Context, systemID int) system.Outcome
	RecordKills(ctx context.Context, kills esi.SystemKill) bool
	RecordJumps(ctx context.Context, jumps esi.SystemJump) bool
}

type Service struct {
	upstream Upstream
	systems  Ingestor
	logger   *slog.Logger

	mu         sync.RWMutex
	lastReport *CycleReport
}

func NewService(upstream Upstream, systems Ingestor, logger *slog.Logger) *Service {
	logger.Debug("Initializing universe sync service")

	return &Service{
		upstream: upstream,
		systems:  systems,
		logger:   logger,
	}
}

// RunSyncCycle performs one full pass: list systems, kills and jumps, then
// ingest each system in turn and attach its activity snapshot. The three list
// fetches are attempted once; if any fails the cycle is abandoned.
func (s *Service) RunSyncCycle(ctx context.Context) (*CycleReport, error) {
	ctx, span := tracer.Start(ctx, "universe.RunSyncCycle")
	defer span.End()

	logger := s.logger.With("component", "universe_service", "operation", "sync_cycle")
	report := &CycleReport{StartedAt: time.Now()}
	logger.Info("Starting sync cycle")

	systemIDs, err := s.upstream.SystemIDs(ctx)
	if err != nil {
		return nil, s.abort(span, logger, "failed to list systems", err)
	}

	kills, err := s.upstream.SystemKills(ctx)
	if err != nil {
		return nil, s.abort(span, logger, "failed to fetch system kills", err)
	}

	jumps, err := s.upstream.SystemJumps(ctx)
	if err != nil {
		return nil, s.abort(span, logger, "failed to fetch system jumps", err)
	}

	report.Systems = len(systemIDs)
	logger.Debug("Upstream lists fetched",
		"systems", len(systemIDs),
		"kills", len(kills),
		"jumps", len(jumps))

	for _, systemID := range systemIDs {
		if err := ctx.Err(); err != nil {
			logger.Warn("Sync cycle cancelled", "error", err)
			return report, err
		}

		outcome := s.systems.Ingest(ctx, systemID)
		report.count(outcome)

		// Snapshots are only attached to systems that have cached info, so
		// wormholes and failed fetches never get kills or jumps.
		if !outcome.HasInfo() {
			continue
		}

		for _, k := range kills {
			if k.SystemID == systemID && s.systems.RecordKills(ctx, k) {
				report.KillsWritten++
			}
		}

		for _, j := range jumps {
			if j.SystemID == systemID && s.systems.RecordJumps(ctx, j) {
				report.JumpsWritten++
			}
		}
	}

	report.Duration = time.Since(report.StartedAt)
	s.setLastReport(report)

	span.SetAttributes(
		attribute.Int("sync.systems", report.Systems),
		attribute.Int("sync.ingested", report.Ingested),
		attribute.Int("sync.failed", report.Failed),
	)
	logger.Info("Sync done",
		"systems", report.Systems,
		"cached", report.Cached,
		"ingested", report.Ingested,
		"wormholes", report.Wormholes,
		"failed", report.Failed,
		"kills_written", report.KillsWritten,
		"jumps_written", report.JumpsWritten,
		"duration", report.Duration)

	return report, nil
}

// LastReport returns the most recent completed cycle, or nil.
func (s *Service) LastReport() *CycleReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastReport == nil {
		return nil
	}
	r := *s.lastReport
	return &r
}

func (s *Service) setLastReport(r *CycleReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReport = r
}

func (s *Service) abort(span trace.Span, logger *slog.Logger, msg string, err error) error {
	logger.Error("Sync cycle aborted", "reason", msg, "error", err)
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return fmt.Errorf("%s: %w", msg, err)
}

func (r *CycleReport) count(o system.Outcome) {
	switch o {
	case system.OutcomeCached:
		r.Cached++
	case system.OutcomeIngested:
		r.Ingested++
	case system.OutcomeWormhole:
		r.Wormholes++
	case system.OutcomeFailed:
		r.Failed++
	}
}
