package universe

import "time"

// CycleReport summarises one synchronization pass.
type CycleReport struct {
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	Systems      int           `json:"systems"`
	Cached       int           `json:"cached"`
	Ingested     int           `json:"ingested"`
	Wormholes    int           `json:"wormholes"`
	Failed       int           `json:"failed"`
	KillsWritten int           `json:"kills_written"`
	JumpsWritten int           `json:"jumps_written"`
}
