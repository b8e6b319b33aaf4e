package system

import "esi-server/internal/esi"

// Info is the cached system document, stored as ESI returns it.
type Info = esi.SystemInfo

// CombinedSystem is a system's info joined with its latest activity snapshot.
// The embedded info is flattened into the same JSON object.
type CombinedSystem struct {
	Info
	ShipJumps int `json:"ship_jumps"`
	NPCKills  int `json:"npc_kills"`
	PodKills  int `json:"pod_kills"`
	ShipKills int `json:"ship_kills"`
}

// Outcome describes what ingesting one system did.
type Outcome string

const (
	// OutcomeCached means the info was already present and nothing was fetched.
	OutcomeCached Outcome = "cached"
	// OutcomeIngested means the info was fetched and written.
	OutcomeIngested Outcome = "ingested"
	// OutcomeWormhole means the fetched system was excluded and discarded.
	OutcomeWormhole Outcome = "wormhole"
	// OutcomeFailed means the info fetch exhausted its retries.
	OutcomeFailed Outcome = "failed"
)

// HasInfo reports whether the system ends up with a cached info document.
func (o Outcome) HasInfo() bool {
	return o == OutcomeCached || o == OutcomeIngested
}
