// Package cohort indexes peer metric values and turns raw readings into
// rank-based percentiles.
package cohort

import (
	"math"
	"sort"

	"github.com/draftedge/farmline/internal/domain/model"
)

// Default cohort configuration constants.
const (
	defaultMinCohort = 20 // below this a percentile is undefined
)

// Key identifies one peer cohort.
type Key struct {
	Season int
	Level  model.Level
	Group  model.PositionGroup
	Metric model.Metric
}

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithMinCohortSize sets the minimum cohort size for a defined percentile.
func WithMinCohortSize(n int) Option {
	return func(ix *Index) {
		if n > 0 {
			ix.minCohort = n
		}
	}
}

// Index accumulates peer values per cohort key during the build phase and
// answers percentile lookups after Freeze. It is written once per run and
// read-only afterwards, so lookups need no locking.
type Index struct {
	minCohort int
	values    map[Key][]float64
	frozen    bool
}

// NewIndex creates an empty index with configuration options.
func NewIndex(opts ...Option) *Index {
	ix := &Index{
		minCohort: defaultMinCohort,
		values:    make(map[Key][]float64),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Add records one peer value. Values are oriented at insert time so that
// larger stored values always mean better performance, letting lookups
// share one comparison direction. Non-finite values are dropped.
func (ix *Index) Add(key Key, value float64) {
	if ix.frozen {
		return
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}
	ix.values[key] = append(ix.values[key], orient(key, value))
}

// Freeze sorts every cohort. Must be called once after the build phase and
// before any Percentile lookup.
func (ix *Index) Freeze() {
	for _, vals := range ix.values {
		sort.Float64s(vals)
	}
	ix.frozen = true
}

// Size returns the number of peer values recorded for key.
func (ix *Index) Size(key Key) int {
	return len(ix.values[key])
}

// Percentile maps a raw metric value to its empirical-CDF percentile in
// [0,100] within the cohort for key. Ties resolve by midpoint-rank
// averaging, so equal raw values always receive equal percentiles and the
// mapping is monotonic non-decreasing in the input.
//
// The second return is false when the cohort is smaller than the minimum
// or the value is not finite; callers must treat that as undefined rather
// than a low percentile.
func (ix *Index) Percentile(key Key, value float64) (float64, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	vals := ix.values[key]
	if len(vals) < ix.minCohort {
		return 0, false
	}
	v := orient(key, value)
	lo := sort.SearchFloat64s(vals, v)
	hi := sort.Search(len(vals), func(i int) bool { return vals[i] > v })
	// lo..hi-1 are the peers equal to v; midpoint rank averages over them.
	midRank := float64(lo) + float64(hi-lo)/2
	return midRank / float64(len(vals)) * 100, true
}

// orient flips lower-is-better metrics so stored order matches quality.
func orient(key Key, value float64) float64 {
	if key.Metric.LowerIsBetter(key.Group) {
		return -value
	}
	return value
}
