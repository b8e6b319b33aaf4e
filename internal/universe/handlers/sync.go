package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"esi-server/internal/shared/errors"
	"esi-server/internal/shared/response"
	"esi-server/internal/universe"
)

type SyncStatusResponse struct {
	Running    int                   `json:"running"`
	LastReport *universe.CycleReport `json:"last_report"`
}

type SyncHandler struct {
	scheduler *universe.Scheduler
	service   *universe.Service
}

func NewSyncHandler(scheduler *universe.Scheduler, service *universe.Service) *SyncHandler {
	return &SyncHandler{
		scheduler: scheduler,
		service:   service,
	}
}

// TriggerSync handles POST /api/admin/sync - Admin only
func (h *SyncHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "trigger_sync")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	if err := h.scheduler.Trigger(); err != nil {
		if stderrors.Is(err, universe.ErrSchedulerStopped) {
			response.Error(w, r, logger, errors.Unavailable("sync scheduler is not running"))
			return
		}
		response.Error(w, r, logger, err)
		return
	}

	logger.Info("Manual sync cycle started", "remote_addr", r.RemoteAddr)
	response.Success(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// GetSyncStatus handles GET /api/admin/sync - Admin only
func (h *SyncHandler) GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_sync_status")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	response.Success(w, http.StatusOK, SyncStatusResponse{
		Running:    h.scheduler.Running(),
		LastReport: h.service.LastReport(),
	})
}

// ServeHTTP dispatches /api/admin/sync by method.
func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.TriggerSync(w, r)
	case http.MethodGet:
		h.GetSyncStatus(w, r)
	default:
		response.Error(w, r, slog.With("handler", "sync"), errors.MethodNotAllowed(r.Method))
	}
}
