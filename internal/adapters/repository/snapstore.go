package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/draftedge/farmline/internal/domain/model"
	"github.com/draftedge/farmline/pkg/metrics"
)

// published is one immutable ranking snapshot. Readers grab the pointer
// once and work on a frozen view; Replace swaps the whole thing.
type published struct {
	meta Meta
	rows []model.CompositeRanking
	byID map[string]int
}

// SnapStore is an in-memory Store backed by an atomically swapped
// snapshot. Reads never block writes and never see a half-published run,
// which fits the batch workload: one writer every run interval, many
// concurrent readers in between.
type SnapStore struct {
	current atomic.Pointer[published]
}

// NewSnapStore creates an empty store. Reads before the first Replace
// see an empty snapshot, not an error.
func NewSnapStore() *SnapStore {
	return &SnapStore{}
}

// Replace atomically publishes a new ranking snapshot.
func (s *SnapStore) Replace(ctx context.Context, meta Meta, rows []model.CompositeRanking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	next := &published{
		meta: meta,
		rows: make([]model.CompositeRanking, len(rows)),
		byID: make(map[string]int, len(rows)),
	}
	copy(next.rows, rows)
	for i, row := range next.rows {
		next.byID[row.ProspectID] = i
	}
	next.meta.Rows = len(next.rows)

	s.current.Store(next)

	metrics.RecordStoreReplaceLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateRankingsStored(len(next.rows))
	return nil
}

// List returns rows matching the filter in rank order.
func (s *SnapStore) List(ctx context.Context, f Filter) ([]model.CompositeRanking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	snap := s.current.Load()
	if snap == nil {
		return []model.CompositeRanking{}, nil
	}

	out := make([]model.CompositeRanking, 0, listCapacity(f.Limit, len(snap.rows)))
	for _, row := range snap.rows {
		if !matches(f, row) {
			continue
		}
		out = append(out, row)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// Get returns one prospect's row.
func (s *SnapStore) Get(ctx context.Context, prospectID string) (model.CompositeRanking, error) {
	if err := ctx.Err(); err != nil {
		return model.CompositeRanking{}, err
	}
	snap := s.current.Load()
	if snap == nil {
		return model.CompositeRanking{}, ErrNotFound
	}
	i, ok := snap.byID[prospectID]
	if !ok {
		return model.CompositeRanking{}, ErrNotFound
	}
	return snap.rows[i], nil
}

// Meta returns snapshot metadata; ok is false before the first Replace.
func (s *SnapStore) Meta(ctx context.Context) (Meta, bool) {
	snap := s.current.Load()
	if snap == nil {
		return Meta{}, false
	}
	return snap.meta, true
}

// Count returns the number of rows in the published snapshot.
func (s *SnapStore) Count(ctx context.Context) int {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.rows)
}

func matches(f Filter, row model.CompositeRanking) bool {
	if f.Position != "" && row.Position != f.Position {
		return false
	}
	if f.Organization != "" && row.Organization != f.Organization {
		return false
	}
	if f.Level != "" && row.Level != f.Level {
		return false
	}
	if f.Tier != 0 && row.Tier != f.Tier {
		return false
	}
	return true
}

func listCapacity(limit, total int) int {
	if limit > 0 && limit < total {
		return limit
	}
	return total
}
