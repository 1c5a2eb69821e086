package model

// Metric identifies one normalized skill signal. The set is closed: cohort
// keys, percentile maps, and breakdown rows all range over these constants
// rather than free-form strings.
type Metric string

// Pitch-level metrics. Hitters and pitchers share whiff/chase identifiers
// but are never cohorted together.
const (
	MetricContactRate     Metric = "contact_rate"
	MetricWhiffRate       Metric = "whiff_rate"
	MetricChaseRate       Metric = "chase_rate"
	MetricExitVelo90th    Metric = "exit_velo_90th"
	MetricHardHitRate     Metric = "hard_hit_rate"
	MetricZoneRate        Metric = "zone_rate"
	MetricAvgFBVelo       Metric = "avg_fb_velo"
	MetricHardContactRate Metric = "hard_contact_rate"
)

// Game-log fallback metrics.
const (
	MetricOPS Metric = "ops"
	MetricERA Metric = "era"
)

// LowerIsBetter reports whether smaller raw values of m indicate better
// performance for the given cohort family. Cohorts invert these at build
// time so a higher percentile always means better.
func (m Metric) LowerIsBetter(group PositionGroup) bool {
	switch m {
	case MetricERA:
		return true
	case MetricWhiffRate, MetricChaseRate:
		return group == GroupHitter
	case MetricHardContactRate:
		return group == GroupPitcher
	}
	return false
}

// MetricReading is one available metric value with its weighting share.
// Percentile stays nil until the cohort lookup resolves it, and remains
// nil when the cohort is too small to percentile against.
type MetricReading struct {
	Metric     Metric   `json:"metric"`
	Value      float64  `json:"value"`
	Weight     float64  `json:"weight"`
	Percentile *float64 `json:"percentile,omitempty"`
}

// Default weights for the hitter pitch-metric family. Re-normalized over
// whichever subset is actually present for a prospect.
var hitterWeights = map[Metric]float64{
	MetricContactRate:  0.25,
	MetricWhiffRate:    0.15,
	MetricChaseRate:    0.15,
	MetricExitVelo90th: 0.20,
	MetricHardHitRate:  0.25,
}

// Default weights for the pitcher pitch-metric family.
var pitcherWeights = map[Metric]float64{
	MetricWhiffRate:       0.30,
	MetricChaseRate:       0.20,
	MetricZoneRate:        0.20,
	MetricAvgFBVelo:       0.15,
	MetricHardContactRate: 0.15,
}

// Readings extracts the available metric readings for the given cohort
// family, in a fixed order so downstream output is deterministic.
func (s PitchMetricSet) Readings(group PositionGroup) []MetricReading {
	if group == GroupPitcher {
		return s.pitcherReadings()
	}
	return s.hitterReadings()
}

func (s PitchMetricSet) hitterReadings() []MetricReading {
	out := []MetricReading{
		{Metric: MetricContactRate, Value: s.ContactRate, Weight: hitterWeights[MetricContactRate]},
		{Metric: MetricWhiffRate, Value: s.WhiffRate, Weight: hitterWeights[MetricWhiffRate]},
		{Metric: MetricChaseRate, Value: s.ChaseRate, Weight: hitterWeights[MetricChaseRate]},
	}
	if s.ExitVelo90th != nil {
		out = append(out, MetricReading{Metric: MetricExitVelo90th, Value: *s.ExitVelo90th, Weight: hitterWeights[MetricExitVelo90th]})
	}
	if s.HardHitRate != nil {
		out = append(out, MetricReading{Metric: MetricHardHitRate, Value: *s.HardHitRate, Weight: hitterWeights[MetricHardHitRate]})
	}
	return out
}

func (s PitchMetricSet) pitcherReadings() []MetricReading {
	out := []MetricReading{
		{Metric: MetricWhiffRate, Value: s.WhiffRate, Weight: pitcherWeights[MetricWhiffRate]},
		{Metric: MetricChaseRate, Value: s.ChaseRate, Weight: pitcherWeights[MetricChaseRate]},
	}
	if s.ZoneRate != nil {
		out = append(out, MetricReading{Metric: MetricZoneRate, Value: *s.ZoneRate, Weight: pitcherWeights[MetricZoneRate]})
	}
	if s.AvgFBVelo != nil {
		out = append(out, MetricReading{Metric: MetricAvgFBVelo, Value: *s.AvgFBVelo, Weight: pitcherWeights[MetricAvgFBVelo]})
	}
	if s.HardContactRate != nil {
		out = append(out, MetricReading{Metric: MetricHardContactRate, Value: *s.HardContactRate, Weight: pitcherWeights[MetricHardContactRate]})
	}
	return out
}

// Readings extracts the single headline game-log reading for the cohort
// family: OPS for hitters, ERA for pitchers. Nil-valued lines yield none.
func (g GameLogAggregate) Readings(group PositionGroup) []MetricReading {
	if group == GroupPitcher {
		if g.ERA == nil {
			return nil
		}
		return []MetricReading{{Metric: MetricERA, Value: *g.ERA, Weight: 1.0}}
	}
	if g.OPS == nil {
		return nil
	}
	return []MetricReading{{Metric: MetricOPS, Value: *g.OPS, Weight: 1.0}}
}
