package esi_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esi-server/internal/esi"
	"esi-server/internal/esi/esitest"
	"esi-server/internal/shared/config"
)

func newClient(cfg config.ESIConfig) *esi.Client {
	return esi.NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_System(t *testing.T) {
	srv := esitest.New(t)
	class := "B"
	srv.AddSystem(esi.SystemInfo{
		ConstellationID: 20000020,
		Name:            "Jita",
		Planets:         []esi.PlanetRef{{PlanetID: 40009077, Moons: []int{40009078}}},
		Position:        esi.Position{X: -1.29e17, Y: 6.07e16, Z: 1.17e17},
		SecurityClass:   &class,
		SecurityStatus:  0.945,
		StarID:          40009076,
		Stargates:       []int{50001248},
		Stations:        []int{60003760},
		SystemID:        30000142,
	})

	system, err := newClient(srv.Config()).System(context.Background(), 30000142)
	require.NoError(t, err)

	assert.Equal(t, "Jita", system.Name)
	require.Len(t, system.Planets, 1)
	assert.Equal(t, 40009077, system.Planets[0].PlanetID)
	require.NotNil(t, system.SecurityClass)
	assert.Equal(t, "B", *system.SecurityClass)
	assert.Equal(t, 1, srv.Calls(esitest.SystemPath(30000142)))
}

func TestClient_Lists(t *testing.T) {
	srv := esitest.New(t)
	srv.AddSystem(esi.SystemInfo{SystemID: 30000142, Name: "Jita"})
	srv.ListSystem(31000005)
	srv.SetKills([]esi.SystemKill{{SystemID: 30000142, NPCKills: 5, PodKills: 1, ShipKills: 2}})
	srv.SetJumps([]esi.SystemJump{{SystemID: 30000142, ShipJumps: 311}})
	client := newClient(srv.Config())
	ctx := context.Background()

	ids, err := client.SystemIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{30000142, 31000005}, ids)

	kills, err := client.SystemKills(ctx)
	require.NoError(t, err)
	assert.Equal(t, []esi.SystemKill{{SystemID: 30000142, NPCKills: 5, PodKills: 1, ShipKills: 2}}, kills)

	jumps, err := client.SystemJumps(ctx)
	require.NoError(t, err)
	assert.Equal(t, []esi.SystemJump{{SystemID: 30000142, ShipJumps: 311}}, jumps)
}

func TestClient_Planet(t *testing.T) {
	srv := esitest.New(t)
	srv.AddPlanet(esi.PlanetInfo{Name: "Jita IV", PlanetID: 40009077, SystemID: 30000142, TypeID: 11})

	planet, err := newClient(srv.Config()).Planet(context.Background(), 40009077)
	require.NoError(t, err)
	assert.Equal(t, "Jita IV", planet.Name)
	assert.Equal(t, 11, planet.TypeID)
}

func TestClient_StatusError(t *testing.T) {
	srv := esitest.New(t)
	srv.Fail(esitest.KillsPath, esitest.Always)

	_, err := newClient(srv.Config()).SystemKills(context.Background())

	var statusErr *esi.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	assert.Equal(t, esitest.KillsPath, statusErr.Path)
}

func TestClient_NotFound(t *testing.T) {
	srv := esitest.New(t)

	_, err := newClient(srv.Config()).Planet(context.Background(), 1)

	var statusErr *esi.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestClient_DecodeError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer ts.Close()

	_, err := newClient(config.ESIConfig{BaseURL: ts.URL + "/", Timeout: time.Second}).SystemIDs(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode /universe/systems/")
}

func TestClient_SendsUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("[]"))
	}))
	defer ts.Close()

	_, err := newClient(config.ESIConfig{BaseURL: ts.URL, Timeout: time.Second, UserAgent: "esi-server/1.0"}).SystemJumps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "esi-server/1.0", got)
}
