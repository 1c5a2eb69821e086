package model

// Source tags which metric family governed a prospect's performance
// breakdown. The four values and their precedence
// (pitch_data > game_logs > insufficient_data > no_data) are a stable
// contract with downstream consumers; do not rename.
type Source string

const (
	SourcePitchData    Source = "pitch_data"
	SourceGameLogs     Source = "game_logs"
	SourceInsufficient Source = "insufficient_data"
	SourceNoData       Source = "no_data"
)

// Valid reports whether s is one of the four contract values.
func (s Source) Valid() bool {
	switch s {
	case SourcePitchData, SourceGameLogs, SourceInsufficient, SourceNoData:
		return true
	}
	return false
}

// PerformanceBreakdown explains how a prospect's adjustments were derived.
// CompositePercentile is nil when no metric had a usable cohort.
type PerformanceBreakdown struct {
	Source              Source          `json:"source"`
	Metrics             []MetricReading `json:"metrics"`
	CompositePercentile *float64        `json:"composite_percentile,omitempty"`
	SampleSize          int             `json:"sample_size"`
	DaysCovered         int             `json:"days_covered"`
	Note                string          `json:"note,omitempty"`
	Tags                []string        `json:"tags,omitempty"`
}

// CompositeRanking is one row of the emitted ranking snapshot. Field names
// are a stable contract with the dashboard/API layer.
type CompositeRanking struct {
	ProspectID   string `json:"prospect_id"`
	Rank         int    `json:"rank"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Organization string `json:"organization"`
	Level        Level  `json:"level"`

	BaseFV              float64 `json:"base_fv"`
	PerformanceModifier float64 `json:"performance_modifier"`
	TrendAdjustment     float64 `json:"trend_adjustment"`
	AgeAdjustment       float64 `json:"age_adjustment"`
	TotalAdjustment     float64 `json:"total_adjustment"`
	CompositeScore      float64 `json:"composite_score"`
	Tier                int     `json:"tier"`
	TierLabel           string  `json:"tier_label"`

	Breakdown PerformanceBreakdown `json:"performance_breakdown"`
}
