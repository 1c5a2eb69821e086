package adjust

import (
	"math"

	"github.com/draftedge/farmline/internal/domain/model"
)

// Strategy decides whether a recent-vs-baseline change in one metric is
// statistically real. Strategies are named so a run can report which
// policy gated its trend adjustments, and swapping one does not touch
// orchestration.
type Strategy interface {
	Name() string
	Significant(recent, baseline model.WindowSample) bool
}

// Proportion z-test defaults.
const (
	defaultZCritical = 1.96 // two-sided 5%
	defaultMinTrials = 10
)

// ZTest is a two-sample proportion z-test with pooled variance.
type ZTest struct {
	zCritical float64
	minTrials int
}

// ZTestOption applies a configuration option to the ZTest strategy.
type ZTestOption func(*ZTest)

// WithZCritical sets the two-sided critical value.
func WithZCritical(z float64) ZTestOption {
	return func(s *ZTest) {
		if z > 0 {
			s.zCritical = z
		}
	}
}

// WithMinTrials sets the minimum trials per window.
func WithMinTrials(n int) ZTestOption {
	return func(s *ZTest) {
		if n > 0 {
			s.minTrials = n
		}
	}
}

// NewZTest creates the z-test strategy with configuration options.
func NewZTest(opts ...ZTestOption) *ZTest {
	s := &ZTest{
		zCritical: defaultZCritical,
		minTrials: defaultMinTrials,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Strategy.
func (s *ZTest) Name() string { return "proportion_z_test" }

// Significant implements Strategy. Windows thinner than the minimum trial
// count never pass, whatever the observed rates.
func (s *ZTest) Significant(recent, baseline model.WindowSample) bool {
	n1, n2 := float64(recent.Trials), float64(baseline.Trials)
	if recent.Trials < s.minTrials || baseline.Trials < s.minTrials {
		return false
	}
	p1 := float64(recent.Successes) / n1
	p2 := float64(baseline.Successes) / n2
	pooled := float64(recent.Successes+baseline.Successes) / (n1 + n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	if se == 0 {
		return false
	}
	z := (p1 - p2) / se
	return math.Abs(z) >= s.zCritical
}

// RelativeThreshold is the simpler gate: a change is significant when the
// relative move exceeds a fixed fraction and both windows carry enough
// trials. Useful for tuning without the test statistics.
type RelativeThreshold struct {
	minRelChange float64
	minTrials    int
}

// NewRelativeThreshold creates the relative-threshold strategy.
func NewRelativeThreshold(minRelChange float64, minTrials int) *RelativeThreshold {
	if minRelChange <= 0 {
		minRelChange = 0.10
	}
	if minTrials <= 0 {
		minTrials = defaultMinTrials
	}
	return &RelativeThreshold{minRelChange: minRelChange, minTrials: minTrials}
}

// Name implements Strategy.
func (s *RelativeThreshold) Name() string { return "relative_threshold" }

// Significant implements Strategy.
func (s *RelativeThreshold) Significant(recent, baseline model.WindowSample) bool {
	if recent.Trials < s.minTrials || baseline.Trials < s.minTrials {
		return false
	}
	if baseline.Successes == 0 {
		return false
	}
	p1 := float64(recent.Successes) / float64(recent.Trials)
	p2 := float64(baseline.Successes) / float64(baseline.Trials)
	return math.Abs(p1-p2)/p2 >= s.minRelChange
}
