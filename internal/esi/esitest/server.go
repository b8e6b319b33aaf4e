// Package esitest provides an in-process fake of the ESI universe endpoints.
package esitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"esi-server/internal/esi"
	"esi-server/internal/shared/config"
)

// Always makes Fail reject every request to a path.
const Always = -1

type Server struct {
	*httptest.Server

	mu        sync.Mutex
	systemIDs []int
	systems   map[int]esi.SystemInfo
	planets   map[int]esi.PlanetInfo
	kills     []esi.SystemKill
	jumps     []esi.SystemJump
	failures  map[string]int
	calls     map[string]int
}

func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{
		systems:  make(map[int]esi.SystemInfo),
		planets:  make(map[int]esi.PlanetInfo),
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /universe/systems/{$}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, s.systemIDs)
	})
	mux.HandleFunc("GET /universe/systems/{id}/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id, _ := strconv.Atoi(r.PathValue("id"))
		system, ok := s.systems[id]
		if !ok {
			http.Error(w, `{"error":"Solar system not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, system)
	})
	mux.HandleFunc("GET /universe/planets/{id}/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		id, _ := strconv.Atoi(r.PathValue("id"))
		planet, ok := s.planets[id]
		if !ok {
			http.Error(w, `{"error":"Planet not found"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, planet)
	})
	mux.HandleFunc("GET /universe/system_kills/{$}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, s.kills)
	})
	mux.HandleFunc("GET /universe/system_jumps/{$}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeJSON(w, s.jumps)
	})

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.URL.Path]++
		remaining, failing := s.failures[r.URL.Path]
		if failing && remaining != 0 {
			if remaining > 0 {
				s.failures[r.URL.Path] = remaining - 1
			}
			s.mu.Unlock()
			http.Error(w, `{"error":"Bad gateway"}`, http.StatusBadGateway)
			return
		}
		s.mu.Unlock()

		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)

	return s
}

// Config points an esi.Client at this server.
func (s *Server) Config() config.ESIConfig {
	return config.ESIConfig{BaseURL: s.URL, Timeout: 5 * time.Second, UserAgent: "esitest"}
}

// AddSystem registers a system and appends its id to the systems list.
func (s *Server) AddSystem(system esi.SystemInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systems[system.SystemID] = system
	s.systemIDs = append(s.systemIDs, system.SystemID)
}

// ListSystem appends an id to the systems list without a detail document.
func (s *Server) ListSystem(systemID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemIDs = append(s.systemIDs, systemID)
}

func (s *Server) AddPlanet(planet esi.PlanetInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planets[planet.PlanetID] = planet
}

func (s *Server) SetKills(kills []esi.SystemKill) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kills = kills
}

func (s *Server) SetJumps(jumps []esi.SystemJump) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jumps = jumps
}

// Fail answers the next n requests to path with 502, or all of them for Always.
func (s *Server) Fail(path string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = n
}

func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

func SystemPath(systemID int) string {
	return "/universe/systems/" + strconv.Itoa(systemID) + "/"
}

func PlanetPath(planetID int) string {
	return "/universe/planets/" + strconv.Itoa(planetID) + "/"
}

const (
	SystemsPath = "/universe/systems/"
	KillsPath   = "/universe/system_kills/"
	JumpsPath   = "/universe/system_jumps/"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
