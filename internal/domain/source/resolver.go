// Package source decides which metric family governs a prospect's
// performance breakdown.
package source

import (
	"github.com/draftedge/farmline/internal/domain/model"
)

// Default minimum-sample thresholds.
const (
	defaultPitchThreshold   = 100 // pitch events
	defaultGameLogThreshold = 30  // days covered
)

// Resolution is the outcome of source selection. Exactly one of PitchSet
// and GameLog is non-nil for the two data-backed sources; both are nil for
// insufficient_data and no_data.
type Resolution struct {
	Source   model.Source
	PitchSet *model.PitchMetricSet
	GameLog  *model.GameLogAggregate
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithPitchThreshold sets the minimum pitch-event sample for pitch_data.
func WithPitchThreshold(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.pitchThreshold = n
		}
	}
}

// WithGameLogThreshold sets the minimum days covered for game_logs.
func WithGameLogThreshold(days int) Option {
	return func(r *Resolver) {
		if days > 0 {
			r.gameLogThreshold = days
		}
	}
}

// Resolver applies the fixed fallback precedence
// pitch_data > game_logs > insufficient_data > no_data.
type Resolver struct {
	pitchThreshold   int
	gameLogThreshold int
}

// NewResolver creates a resolver with configuration options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		pitchThreshold:   defaultPitchThreshold,
		gameLogThreshold: defaultGameLogThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve picks the governing metric family for one prospect. It is total:
// every combination of missing or thin data maps to a defined Source, so
// downstream handling never branches on error.
//
// A pitch set with SampleSize below the threshold (including zero) never
// resolves to pitch_data; it still counts as a historical record for the
// insufficient_data fallback.
func (r *Resolver) Resolve(pitch *model.PitchMetricSet, gameLog *model.GameLogAggregate) Resolution {
	if pitch != nil && pitch.SampleSize >= r.pitchThreshold {
		return Resolution{Source: model.SourcePitchData, PitchSet: pitch}
	}
	if gameLog != nil && gameLog.DaysCovered >= r.gameLogThreshold {
		return Resolution{Source: model.SourceGameLogs, GameLog: gameLog}
	}
	if pitch != nil || gameLog != nil {
		return Resolution{Source: model.SourceInsufficient}
	}
	return Resolution{Source: model.SourceNoData}
}
