// Package model contains domain entities passed between layers.
package model

import "time"

// Level is a minor-league classification tier ordered by difficulty.
type Level string

// Known levels, lowest to highest.
const (
	LevelRookie Level = "ROK"
	LevelLowA   Level = "A"
	LevelHighA  Level = "A+"
	LevelAA     Level = "AA"
	LevelAAA    Level = "AAA"
)

// Levels lists known levels in ascending order of difficulty.
func Levels() []Level {
	return []Level{LevelRookie, LevelLowA, LevelHighA, LevelAA, LevelAAA}
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelRookie, LevelLowA, LevelHighA, LevelAA, LevelAAA:
		return true
	}
	return false
}

// PositionGroup splits prospects into the two cohort families used for
// baselines and percentiles.
type PositionGroup string

const (
	GroupHitter  PositionGroup = "hitter"
	GroupPitcher PositionGroup = "pitcher"
)

// Prospect is the identity and classification record. It is created and
// updated by the external ingestion collaborator; the engine reads it only.
type Prospect struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Position     string    `json:"position"`
	Organization string    `json:"organization"`
	Level        Level     `json:"level"`
	Age          float64   `json:"age"`
	BirthDate    time.Time `json:"birth_date"`
}

// Group maps the roster position to its cohort family. Any pitching
// position (P, SP, RP) is a pitcher; everything else hits.
func (p Prospect) Group() PositionGroup {
	switch p.Position {
	case "P", "SP", "RP":
		return GroupPitcher
	}
	return GroupHitter
}

// ToolGrades carries the individual 20-80 tool grades attached to a
// scouting report. Nil means the source did not grade that tool.
type ToolGrades struct {
	Hit      *float64 `json:"hit,omitempty"`
	Power    *float64 `json:"power,omitempty"`
	Run      *float64 `json:"run,omitempty"`
	Arm      *float64 `json:"arm,omitempty"`
	Field    *float64 `json:"field,omitempty"`
	Fastball *float64 `json:"fastball,omitempty"`
	Breaking *float64 `json:"breaking,omitempty"`
	Changeup *float64 `json:"changeup,omitempty"`
	Command  *float64 `json:"command,omitempty"`
}

// ScoutingGrade is an externally supplied 20-80 scale evaluation.
type ScoutingGrade struct {
	ProspectID string     `json:"prospect_id"`
	Source     string     `json:"source"`
	OverallFV  float64    `json:"overall_fv"`
	Tools      ToolGrades `json:"tools"`
}

// PitchMetricSet aggregates pitch-level event data for one prospect at one
// (season, level). The three core rates are always present when the set
// exists; the remainder are optional depending on park instrumentation.
type PitchMetricSet struct {
	ProspectID  string  `json:"prospect_id"`
	Season      int     `json:"season"`
	Level       Level   `json:"level"`
	SampleSize  int     `json:"sample_size"`
	ContactRate float64 `json:"contact_rate"`
	WhiffRate   float64 `json:"whiff_rate"`
	ChaseRate   float64 `json:"chase_rate"`

	ExitVelo90th    *float64 `json:"exit_velo_90th,omitempty"`
	HardHitRate     *float64 `json:"hard_hit_rate,omitempty"`
	ZoneRate        *float64 `json:"zone_rate,omitempty"`
	AvgFBVelo       *float64 `json:"avg_fb_velo,omitempty"`
	HardContactRate *float64 `json:"hard_contact_rate,omitempty"`
}

// GameLogAggregate is the traditional-stat fallback when pitch data is
// missing or thin. Hitter and pitcher rate lines are both optional so one
// shape serves either cohort family.
type GameLogAggregate struct {
	ProspectID  string `json:"prospect_id"`
	Season      int    `json:"season"`
	Level       Level  `json:"level"`
	DaysCovered int    `json:"days_covered"`
	PA          int    `json:"pa"`

	OPS    *float64 `json:"ops,omitempty"`
	ERA    *float64 `json:"era,omitempty"`
	WHIP   *float64 `json:"whip,omitempty"`
	KPer9  *float64 `json:"k_per_9,omitempty"`
	BBPer9 *float64 `json:"bb_per_9,omitempty"`
}

// GameRecord is one player's batting line for one game, keyed by
// (game_id, player_id). Factor tables are built from these.
type GameRecord struct {
	GameID    string  `json:"game_id"`
	PlayerID  string  `json:"player_id"`
	Season    int     `json:"season"`
	Level     Level   `json:"level"`
	Position  string  `json:"position"`
	PlayerAge float64 `json:"player_age"`

	PA      int `json:"pa"`
	AB      int `json:"ab"`
	H       int `json:"h"`
	Doubles int `json:"doubles"`
	Triples int `json:"triples"`
	HR      int `json:"hr"`
	BB      int `json:"bb"`
	HBP     int `json:"hbp"`
	SF      int `json:"sf"`
	SO      int `json:"so"`
	SB      int `json:"sb"`
}

// WindowSample is a success/trial count for one metric inside a trend
// window, e.g. contacts over swings. Proportion tests run on these.
type WindowSample struct {
	Metric    Metric `json:"metric"`
	Successes int    `json:"successes"`
	Trials    int    `json:"trials"`
}

// TrendWindows pairs a recent performance window with its baseline window
// for the breakout detector.
type TrendWindows struct {
	ProspectID   string         `json:"prospect_id"`
	RecentDays   int            `json:"recent_days"`
	BaselineDays int            `json:"baseline_days"`
	Recent       []WindowSample `json:"recent"`
	Baseline     []WindowSample `json:"baseline"`
}

// LeagueFactor holds the per (season, level) baselines every prospect at
// that level is normalized against.
type LeagueFactor struct {
	Season int   `json:"season"`
	Level  Level `json:"level"`
	Games  int   `json:"games"`

	LgAVG    float64 `json:"lg_avg"`
	LgOBP    float64 `json:"lg_obp"`
	LgSLG    float64 `json:"lg_slg"`
	LgOPS    float64 `json:"lg_ops"`
	LgISO    float64 `json:"lg_iso"`
	LgHRRate float64 `json:"lg_hr_rate"`
	LgBBRate float64 `json:"lg_bb_rate"`
	LgSORate float64 `json:"lg_so_rate"`
	LgSBRate float64 `json:"lg_sb_rate"`

	LgAvgAge    float64 `json:"lg_avg_age"`
	LgMedianAge float64 `json:"lg_median_age"`
	LgAgeStd    float64 `json:"lg_age_std"`
	LgAge25th   float64 `json:"lg_age_25th"`
	LgAge75th   float64 `json:"lg_age_75th"`
}

// PositionFactor holds position-group-scoped offensive baselines for one
// (season, level, group).
type PositionFactor struct {
	Season int           `json:"season"`
	Level  Level         `json:"level"`
	Group  PositionGroup `json:"position_group"`
	Games  int           `json:"games"`

	PosAVG    float64 `json:"pos_avg"`
	PosOBP    float64 `json:"pos_obp"`
	PosSLG    float64 `json:"pos_slg"`
	PosOPS    float64 `json:"pos_ops"`
	PosAvgAge float64 `json:"pos_avg_age"`
}

// Snapshot is the externally supplied input for one batch run.
type Snapshot struct {
	Season       int                `json:"season"`
	Prospects    []Prospect         `json:"prospects"`
	Grades       []ScoutingGrade    `json:"grades"`
	PitchMetrics []PitchMetricSet   `json:"pitch_metrics"`
	GameLogs     []GameLogAggregate `json:"game_logs"`
	Games        []GameRecord       `json:"games"`
	Trends       []TrendWindows     `json:"trends"`
}
