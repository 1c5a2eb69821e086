// Package dedupe suppresses duplicate game lines during snapshot
// ingestion. Upstream providers occasionally re-deliver a game after stat
// corrections; counting a line twice would skew every factor table built
// from it.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Key identifies one player's line in one game.
type Key struct {
	GameID   string
	PlayerID string
}

// Deduper records seen game lines so each is counted at most once.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records it
	// if not. Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key Key) bool

	Size() int64
}

// inMemoryDeduper implements Deduper with a plain set. Snapshot loads are
// bounded by the input file, so no eviction policy is needed; the max size
// is a safety valve against a runaway input.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[Key]struct{}
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[Key]struct{})
	return d
}

// SeenAndRecord implements Deduper.
func (d *inMemoryDeduper) SeenAndRecord(ctx context.Context, key Key) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		// At the safety valve, treat overflow as seen so ingestion stops
		// counting rather than growing without bound.
		return true
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the number of recorded game lines.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
