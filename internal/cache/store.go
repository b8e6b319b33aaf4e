// Package cache is the durable key-value store the sync pipeline writes into
// and the read API serves from. Values are opaque JSON documents under flat
// string keys; writes are upserts.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("cache: key not found")

const (
	SuffixSystemInfo = "_info"
	SuffixPlanetInfo = "_info_planet"
	SuffixKills      = "_kills"
	SuffixJumps      = "_jumps"
)

type Entry struct {
	Key   string
	Value json.RawMessage
}

type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Put(ctx context.Context, key string, value json.RawMessage) error
	// Scan returns every entry whose key ends with suffix, in the backend's
	// enumeration order.
	Scan(ctx context.Context, suffix string) ([]Entry, error)
	Ping(ctx context.Context) error
	Close() error
}

func SystemInfoKey(systemID int) string {
	return fmt.Sprintf("%d%s", systemID, SuffixSystemInfo)
}

func PlanetInfoKey(planetID int) string {
	return fmt.Sprintf("%d%s", planetID, SuffixPlanetInfo)
}

func KillsKey(systemID int) string {
	return fmt.Sprintf("%d%s", systemID, SuffixKills)
}

func JumpsKey(systemID int) string {
	return fmt.Sprintf("%d%s", systemID, SuffixJumps)
}
