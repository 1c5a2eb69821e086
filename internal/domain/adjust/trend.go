package adjust

import (
	"fmt"

	"github.com/draftedge/farmline/internal/domain/model"
)

// Trend adjustment constants. Relative improvement is averaged over the
// metrics that passed the significance gate, then scaled so a 20% move
// saturates the bound. Values past the consistency bound additionally
// require multiple metrics agreeing in direction.
const (
	TrendBound       = 5.0
	trendScale       = 25.0
	consistencyBound = 3.0
	minAgreeing      = 2
)

// TrendOption applies a configuration option to the TrendDetector.
type TrendOption func(*TrendDetector)

// WithStrategy sets the significance strategy.
func WithStrategy(s Strategy) TrendOption {
	return func(d *TrendDetector) {
		if s != nil {
			d.strategy = s
		}
	}
}

// TrendDetector is the breakout detector: it compares a recent performance
// window against a baseline window and emits a bounded adjustment only
// when the change is statistically real.
type TrendDetector struct {
	strategy Strategy
}

// NewTrendDetector creates a detector with configuration options. The
// default significance gate is the proportion z-test.
func NewTrendDetector(opts ...TrendOption) *TrendDetector {
	d := &TrendDetector{strategy: NewZTest()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect compares the windows metric by metric. Per metric it computes the
// relative improvement (oriented so improvement is always positive),
// applies the significance gate, and averages the surviving improvements
// into an adjustment in [-5,5]. A single noisy metric cannot push the
// adjustment past the consistency bound: beyond it at least two metrics
// must agree in direction.
func (d *TrendDetector) Detect(tw *model.TrendWindows, group model.PositionGroup) (float64, []string) {
	if tw == nil || len(tw.Recent) == 0 || len(tw.Baseline) == 0 {
		return 0, []string{"no_trend_data"}
	}

	baseline := make(map[model.Metric]model.WindowSample, len(tw.Baseline))
	for _, s := range tw.Baseline {
		baseline[s.Metric] = s
	}

	var improvements []float64
	for _, recent := range tw.Recent {
		base, ok := baseline[recent.Metric]
		if !ok {
			continue
		}
		rel, ok := relativeImprovement(recent, base, group)
		if !ok {
			continue
		}
		if !d.strategy.Significant(recent, base) {
			continue
		}
		improvements = append(improvements, rel)
	}

	if len(improvements) == 0 {
		return 0, []string{"no_significant_change"}
	}

	var sum float64
	positive, negative := 0, 0
	for _, rel := range improvements {
		sum += rel
		if rel > 0 {
			positive++
		} else if rel < 0 {
			negative++
		}
	}
	adj := clamp(sum/float64(len(improvements))*trendScale, TrendBound)

	tags := []string{fmt.Sprintf("gate:%s", d.strategy.Name())}
	agreeing := positive
	if adj < 0 {
		agreeing = negative
	}
	if adj > consistencyBound && agreeing < minAgreeing {
		adj = consistencyBound
		tags = append(tags, "consistency_capped")
	} else if adj < -consistencyBound && agreeing < minAgreeing {
		adj = -consistencyBound
		tags = append(tags, "consistency_capped")
	}

	switch {
	case adj >= 2:
		tags = append(tags, "breakout")
	case adj <= -2:
		tags = append(tags, "decline")
	}
	return adj, tags
}

// relativeImprovement computes the oriented relative change for one metric
// pair. Degenerate windows (zero trials, zero baseline rate) report false
// and are treated as missing rather than producing NaN or Inf.
func relativeImprovement(recent, baseline model.WindowSample, group model.PositionGroup) (float64, bool) {
	if recent.Trials <= 0 || baseline.Trials <= 0 || baseline.Successes <= 0 {
		return 0, false
	}
	p1 := float64(recent.Successes) / float64(recent.Trials)
	p2 := float64(baseline.Successes) / float64(baseline.Trials)
	rel := (p1 - p2) / p2
	if recent.Metric.LowerIsBetter(group) {
		rel = -rel
	}
	return rel, true
}
