package server

import (
	"log/slog"
	"net/http"

	"esi-server/internal/cache"
	"esi-server/internal/middleware"
	"esi-server/internal/planet"
	planetHandlers "esi-server/internal/planet/handlers"
	serverHandlers "esi-server/internal/server/handlers"
	"esi-server/internal/system"
	systemHandlers "esi-server/internal/system/handlers"
	"esi-server/internal/universe"
	universeHandlers "esi-server/internal/universe/handlers"
)

type Routes struct {
	store           cache.Store
	cacheBackend    string
	systemService   *system.Service
	planetService   *planet.Service
	universeService *universe.Service
	scheduler       *universe.Scheduler
	jwtSecret       string
	logger          *slog.Logger
}

func NewRoutes(
	store cache.Store,
	cacheBackend string,
	systemService *system.Service,
	planetService *planet.Service,
	universeService *universe.Service,
	scheduler *universe.Scheduler,
	jwtSecret string,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		store:           store,
		cacheBackend:    cacheBackend,
		systemService:   systemService,
		planetService:   planetService,
		universeService: universeService,
		scheduler:       scheduler,
		jwtSecret:       jwtSecret,
		logger:          logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.store, r.cacheBackend, r.universeService)
	systemHandler := systemHandlers.NewSystemHandler(r.systemService)
	planetHandler := planetHandlers.NewPlanetHandler(r.planetService)
	syncHandler := universeHandlers.NewSyncHandler(r.scheduler, r.universeService)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("/api/system-data", systemHandler.GetSystemData)
	mux.HandleFunc("/api/planet", planetHandler.GetPlanet)
	mux.HandleFunc("/api/planet/type", planetHandler.GetPlanetType)

	// Admin-only endpoints (bearer token + admin role)
	mux.Handle("/api/admin/sync", middleware.RequireAdmin(r.jwtSecret)(syncHandler))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/system-data", "/api/planet", "/api/planet/type"},
		"admin_endpoints", []string{"/api/admin/sync"},
		"admin_enabled", r.jwtSecret != "",
	)

	return mux
}
