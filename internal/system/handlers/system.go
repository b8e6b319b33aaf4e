package handlers

import (
	"log/slog"
	"net/http"

	"esi-server/internal/shared/errors"
	"esi-server/internal/shared/response"
	"esi-server/internal/system"
)

type SystemHandler struct {
	service *system.Service
}

func NewSystemHandler(service *system.Service) *SystemHandler {
	return &SystemHandler{service: service}
}

// GetSystemData handles GET /api/system-data
func (h *SystemHandler) GetSystemData(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_system_data")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	systems, err := h.service.ListCombined(r.Context())
	if err != nil {
		response.ErrorWithMessage(w, r, logger, errors.WrapInternal("failed to list systems", err), "Error fetching system data")
		return
	}

	response.Success(w, http.StatusOK, systems)
}
