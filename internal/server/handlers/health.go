package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"esi-server/internal/cache"
	"esi-server/internal/shared/response"
	"esi-server/internal/universe"
)

const pingTimeout = 2 * time.Second

type HealthResponse struct {
	Status       string                `json:"status"`
	Timestamp    string                `json:"timestamp"`
	Cache        string                `json:"cache"`
	CacheBackend string                `json:"cache_backend"`
	LastSync     *universe.CycleReport `json:"last_sync"`
}

// SyncReporter exposes the most recent completed sync cycle.
type SyncReporter interface {
	LastReport() *universe.CycleReport
}

type HealthHandler struct {
	store   cache.Store
	backend string
	syncs   SyncReporter
}

func NewHealthHandler(store cache.Store, backend string, syncs SyncReporter) *HealthHandler {
	return &HealthHandler{store: store, backend: backend, syncs: syncs}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	status := "healthy"
	cacheStatus := "connected"
	if err := h.store.Ping(ctx); err != nil {
		logger.Warn("Cache ping failed", "backend", h.backend, "error", err)
		status = "degraded"
		cacheStatus = "disconnected"
	}

	resp := HealthResponse{
		Status:       status,
		Timestamp:    time.Now().Format(time.RFC3339),
		Cache:        cacheStatus,
		CacheBackend: h.backend,
		LastSync:     h.syncs.LastReport(),
	}

	response.Success(w, http.StatusOK, resp)
}
