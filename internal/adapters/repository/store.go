// Package repository defines the ranking store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/draftedge/farmline/internal/domain/model"
)

// Filter narrows a List call. Zero values mean "no constraint"; Limit 0
// returns every matching row.
type Filter struct {
	Position     string
	Organization string
	Level        model.Level
	Tier         int
	Limit        int
}

// Meta describes the currently published ranking snapshot.
type Meta struct {
	RunID       string
	Season      int
	GeneratedAt time.Time
	Rows        int
}

// Store provides read access to the published ranking snapshot and the
// single write path that replaces it wholesale.
type Store interface {
	// Replace atomically publishes a new ranking snapshot. Rows must
	// already be rank-ordered; the store never re-sorts.
	Replace(ctx context.Context, meta Meta, rows []model.CompositeRanking) error

	// List returns rows matching the filter in rank order.
	// Returns ErrInvalidLimit for a negative limit.
	List(ctx context.Context, f Filter) ([]model.CompositeRanking, error)

	// Get returns one prospect's row.
	// Returns ErrNotFound if the prospect is not in the snapshot.
	Get(ctx context.Context, prospectID string) (model.CompositeRanking, error)

	// Meta returns snapshot metadata; ok is false before the first Replace.
	Meta(ctx context.Context) (Meta, bool)

	// Count returns the number of rows in the published snapshot.
	Count(ctx context.Context) int
}
