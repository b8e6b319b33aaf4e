package universe_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esi-server/internal/cache"
	"esi-server/internal/cache/cachetest"
	"esi-server/internal/esi"
	"esi-server/internal/esi/esitest"
	"esi-server/internal/planet"
	"esi-server/internal/shared/retry"
	"esi-server/internal/system"
	"esi-server/internal/universe"
)

const (
	jita     = 30000142
	amarr    = 30002187
	wormhole = 31000005
)

type fixture struct {
	esi      *esitest.Server
	store    *cachetest.Store
	systems  *system.Service
	universe *universe.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := esitest.New(t)
	srv.AddSystem(esi.SystemInfo{Name: "Jita", SystemID: jita, Planets: []esi.PlanetRef{{PlanetID: 40009077}}})
	srv.AddSystem(esi.SystemInfo{Name: "J100001", SystemID: wormhole})
	srv.AddPlanet(esi.PlanetInfo{Name: "Jita IV", PlanetID: 40009077, SystemID: jita, TypeID: 11})
	srv.SetKills([]esi.SystemKill{{SystemID: jita, NPCKills: 5, PodKills: 1, ShipKills: 2}})
	srv.SetJumps([]esi.SystemJump{})

	store := cachetest.New()
	client := esi.NewClient(srv.Config(), logger)
	retrier := retry.New(retry.DefaultAttempts, time.Millisecond, logger)
	planets := planet.NewService(planet.NewRepository(store, logger), client, retrier, logger)
	systems := system.NewService(system.NewRepository(store, logger), client, planets, retrier, logger)

	return &fixture{
		esi:      srv,
		store:    store,
		systems:  systems,
		universe: universe.NewService(client, systems, logger),
	}
}

func TestRunSyncCycle_JitaAndWormhole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.universe.RunSyncCycle(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Systems)
	assert.Equal(t, 1, report.Ingested)
	assert.Equal(t, 1, report.Wormholes)
	assert.Equal(t, 1, report.KillsWritten)
	assert.Equal(t, 0, report.JumpsWritten)

	combined, err := f.systems.ListCombined(ctx)
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, jita, combined[0].SystemID)
	assert.Equal(t, 0, combined[0].ShipJumps)
	assert.Equal(t, 5, combined[0].NPCKills)
	assert.Equal(t, 1, combined[0].PodKills)
	assert.Equal(t, 2, combined[0].ShipKills)

	for _, key := range []string{cache.SystemInfoKey(wormhole), cache.KillsKey(wormhole), cache.JumpsKey(wormhole)} {
		assert.False(t, f.store.Has(key), key)
	}
}

func TestRunSyncCycle_WormholeNeverCachedEvenWithActivity(t *testing.T) {
	f := newFixture(t)
	f.esi.SetKills([]esi.SystemKill{{SystemID: wormhole, ShipKills: 9}})
	f.esi.SetJumps([]esi.SystemJump{{SystemID: wormhole, ShipJumps: 4}})
	ctx := context.Background()

	for range 3 {
		_, err := f.universe.RunSyncCycle(ctx)
		require.NoError(t, err)
	}

	assert.False(t, f.store.Has(cache.SystemInfoKey(wormhole)))
	assert.False(t, f.store.Has(cache.KillsKey(wormhole)))
	assert.False(t, f.store.Has(cache.JumpsKey(wormhole)))
}

func TestRunSyncCycle_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.esi.SetJumps([]esi.SystemJump{{SystemID: jita, ShipJumps: 311}})
	ctx := context.Background()

	_, err := f.universe.RunSyncCycle(ctx)
	require.NoError(t, err)
	before, err := f.store.Get(ctx, cache.KillsKey(jita))
	require.NoError(t, err)

	report, err := f.universe.RunSyncCycle(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Cached)
	assert.Equal(t, 0, report.Ingested)
	assert.Equal(t, 1, f.store.Puts(cache.SystemInfoKey(jita)))
	assert.Equal(t, 1, f.store.Puts(cache.PlanetInfoKey(40009077)))
	assert.Equal(t, 2, f.store.Puts(cache.KillsKey(jita)))
	assert.Equal(t, 2, f.store.Puts(cache.JumpsKey(jita)))

	after, err := f.store.Get(ctx, cache.KillsKey(jita))
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestRunSyncCycle_LatestSnapshotWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.universe.RunSyncCycle(ctx)
	require.NoError(t, err)

	f.esi.SetKills([]esi.SystemKill{{SystemID: jita, NPCKills: 40}})
	_, err = f.universe.RunSyncCycle(ctx)
	require.NoError(t, err)

	combined, err := f.systems.ListCombined(ctx)
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, 40, combined[0].NPCKills)
	assert.Equal(t, 0, combined[0].ShipKills)
}

func TestRunSyncCycle_TopLevelFailureAbortsCycle(t *testing.T) {
	for name, path := range map[string]string{
		"systems": esitest.SystemsPath,
		"kills":   esitest.KillsPath,
		"jumps":   esitest.JumpsPath,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.esi.Fail(path, 1)

			report, err := f.universe.RunSyncCycle(context.Background())

			require.Error(t, err)
			assert.Nil(t, report)
			assert.Equal(t, 1, f.esi.Calls(path), "top-level lists are not retried")
			assert.Equal(t, 0, f.esi.Calls(esitest.SystemPath(jita)))
			assert.Equal(t, 0, f.store.Len())
			assert.Nil(t, f.universe.LastReport())
		})
	}
}

func TestRunSyncCycle_FailedSystemDoesNotStopCycle(t *testing.T) {
	f := newFixture(t)
	f.esi.AddSystem(esi.SystemInfo{Name: "Amarr", SystemID: amarr})
	f.esi.SetKills([]esi.SystemKill{{SystemID: jita, NPCKills: 5}, {SystemID: amarr, NPCKills: 3}})
	f.esi.Fail(esitest.SystemPath(jita), esitest.Always)

	report, err := f.universe.RunSyncCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Ingested)
	assert.False(t, f.store.Has(cache.SystemInfoKey(jita)))
	assert.False(t, f.store.Has(cache.KillsKey(jita)))
	assert.True(t, f.store.Has(cache.SystemInfoKey(amarr)))
	assert.True(t, f.store.Has(cache.KillsKey(amarr)))
}

func TestRunSyncCycle_StorageWriteFailureIsSoft(t *testing.T) {
	f := newFixture(t)
	f.store.FailPut(cache.KillsKey(jita))

	report, err := f.universe.RunSyncCycle(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, report.KillsWritten)
	assert.True(t, f.store.Has(cache.SystemInfoKey(jita)))
}

func TestRunSyncCycle_RecordsLastReport(t *testing.T) {
	f := newFixture(t)

	report, err := f.universe.RunSyncCycle(context.Background())
	require.NoError(t, err)

	last := f.universe.LastReport()
	require.NotNil(t, last)
	assert.Equal(t, *report, *last)
}

func TestRunSyncCycle_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.universe.RunSyncCycle(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.store.Len())
}
