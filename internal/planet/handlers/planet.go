package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"esi-server/internal/planet"
	"esi-server/internal/shared/errors"
	"esi-server/internal/shared/response"
)

type PlanetHandler struct {
	service *planet.Service
}

func NewPlanetHandler(service *planet.Service) *PlanetHandler {
	return &PlanetHandler{service: service}
}

// GetPlanet handles GET /api/planet?planet_id=N
func (h *PlanetHandler) GetPlanet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := slog.With("handler", "get_planet")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	planetID, err := intQuery(r, "planet_id")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	p, err := h.service.Get(ctx, planetID)
	if err != nil {
		if errors.GetType(err) == errors.ErrorTypeInternal {
			response.ErrorWithMessage(w, r, logger, err, "Error fetching system planet data")
			return
		}
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, p)
}

// GetPlanetType handles GET /api/planet/type?planet_type_id=N
func (h *PlanetHandler) GetPlanetType(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_planet_type")

	if r.Method != http.MethodGet {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	typeID, err := intQuery(r, "planet_type_id")
	if err != nil {
		// unparseable ids still get the unknown label
		response.Success(w, http.StatusOK, planet.UnknownTypeLabel)
		return
	}

	response.Success(w, http.StatusOK, planet.TypeLabel(typeID))
}

func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.Validation(name + " is required")
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.WrapValidation("invalid "+name+" format", err)
	}
	return v, nil
}
