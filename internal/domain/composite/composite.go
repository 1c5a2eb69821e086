// Package composite merges the base scouting value with the bounded
// adjustments into a final score and a discrete tier.
package composite

import (
	"math"
	"sort"
)

// NeutralBaseFV is the documented default when a prospect has no scouting
// grade at all; it ranks on adjustments alone around an org-filler value.
const NeutralBaseFV = 35.0

// Score sums the base FV and the three adjustments. It returns the total
// adjustment alongside the composite score so emitted rows satisfy
// composite_score == base_fv + total_adjustment exactly.
func Score(baseFV, performance, trend, age float64) (score, totalAdjustment float64) {
	totalAdjustment = performance + trend + age
	return baseFV + totalAdjustment, totalAdjustment
}

// Tier labels, best first. The shares are cumulative population fractions
// from the top: the top 5% are Elite, the next 15% Impact, and so on.
var tierLabels = []string{"Elite", "Impact", "Solid", "Depth", "Flier"}

var tierShares = []float64{0.05, 0.20, 0.50, 0.80}

// TierClassifier partitions one run's population into discrete tiers using
// quantile breakpoints recomputed from that run's score distribution, so
// tier boundaries track the population rather than absolute score bands.
type TierClassifier struct {
	breakpoints []float64 // descending score thresholds, one per boundary
}

// NewTierClassifier computes breakpoints from the scores of every ranked
// prospect in the run.
func NewTierClassifier(scores []float64) *TierClassifier {
	clean := make([]float64, 0, len(scores))
	for _, s := range scores {
		if !math.IsNaN(s) && !math.IsInf(s, 0) {
			clean = append(clean, s)
		}
	}
	sort.Float64s(clean)

	c := &TierClassifier{breakpoints: make([]float64, len(tierShares))}
	for i, share := range tierShares {
		c.breakpoints[i] = quantileSorted(clean, 1-share)
	}
	return c
}

// Classify returns the 1-based tier and its label for a score.
func (c *TierClassifier) Classify(score float64) (int, string) {
	for i, bp := range c.breakpoints {
		if score >= bp {
			return i + 1, tierLabels[i]
		}
	}
	last := len(tierLabels) - 1
	return last + 1, tierLabels[last]
}

// Tiers returns the number of tiers in the partition.
func (c *TierClassifier) Tiers() int { return len(tierLabels) }

// quantileSorted interpolates the q-th quantile of an ascending slice.
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.Inf(1) // empty population classifies everything as the bottom tier
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
