package engine

import (
	"time"

	"github.com/draftedge/farmline/internal/domain/model"
)

// Report aggregates per-run fallback and anomaly counts for operational
// visibility. No count in here ever aborts a run; at worst a prospect is
// ranked on scouting grade alone.
type Report struct {
	RunID       string    `json:"run_id"`
	Season      int       `json:"season"`
	GeneratedAt time.Time `json:"generated_at"`
	Prospects   int       `json:"prospects"`

	SourceCounts         map[model.Source]int `json:"source_counts"`
	MissingGrades        int                  `json:"missing_grades"`
	UndefinedPercentiles int                  `json:"undefined_percentiles"`
	FactorFallbacks      int                  `json:"factor_fallbacks"`
	DuplicateGames       int                  `json:"duplicate_games"`

	ElapsedMS int64 `json:"elapsed_ms"`
}

// Result is the complete output of one batch run.
type Result struct {
	Rankings []model.CompositeRanking `json:"rankings"`
	Report   Report                   `json:"report"`
}
