// Package adjust holds the three bounded adjustment calculators that sit
// between percentile normalization and the composite score. Every
// calculator is a pure function of its inputs and returns short rationale
// tags for downstream explanation text.
package adjust

import (
	"math"

	"github.com/draftedge/farmline/internal/domain/model"
)

// Performance modifier constants. The mapping is linear around the 50th
// percentile: five percentile points move the modifier by one.
const (
	PerformanceBound   = 10.0
	centerPercentile   = 50.0
	percentilePerPoint = 5.0
)

// Performance computes the composite percentile as the weighted average of
// the percentiles that actually resolved, with weights re-normalized to
// sum to 1 over that subset, then maps it to a modifier in [-10,10].
//
// Readings without a defined percentile (small cohort, missing metric) are
// excluded from the weighting rather than treated as zero. When nothing
// resolved, the modifier is 0 and the composite percentile is nil.
func Performance(readings []model.MetricReading) (modifier float64, composite *float64, tags []string) {
	var weightSum, weighted float64
	used := 0
	for _, r := range readings {
		if r.Percentile == nil || r.Weight <= 0 {
			continue
		}
		weightSum += r.Weight
		weighted += r.Weight * (*r.Percentile)
		used++
	}
	if used == 0 || weightSum == 0 {
		return 0, nil, []string{"no_percentile_cohorts"}
	}

	pct := weighted / weightSum
	composite = &pct
	modifier = clamp((pct-centerPercentile)/percentilePerPoint, PerformanceBound)

	switch {
	case pct >= 80:
		tags = append(tags, "elite_production")
	case pct <= 20:
		tags = append(tags, "weak_production")
	}
	if used < len(readings) {
		tags = append(tags, "partial_metric_coverage")
	}
	return modifier, composite, tags
}

// clamp bounds v to [-limit, limit].
func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
