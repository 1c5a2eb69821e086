package adjust

import "github.com/draftedge/farmline/internal/domain/model"

// Age adjustment constants. The offset from the level's average age is
// expressed in standard deviations so levels with tight and wide age
// spreads are comparable; the std floor guards near-degenerate cohorts.
const (
	AgeBound       = 5.0
	agePointPerStd = 2.0
	minAgeStd      = 0.5
)

// Age compares a prospect's age-at-level against the league age
// distribution. Younger than peers yields a positive adjustment, older a
// negative one, bounded to [-5,5].
func Age(age float64, lf model.LeagueFactor) (float64, []string) {
	if age <= 0 || lf.LgAvgAge <= 0 {
		return 0, []string{"no_age_baseline"}
	}

	std := lf.LgAgeStd
	if std < minAgeStd {
		std = minAgeStd
	}
	z := (lf.LgAvgAge - age) / std
	adj := clamp(z*agePointPerStd, AgeBound)

	var tags []string
	switch {
	case adj >= 2:
		tags = append(tags, "young_for_level")
	case adj <= -2:
		tags = append(tags, "old_for_level")
	}
	return adj, tags
}
