// Package factors builds the per (season, level) and per
// (season, level, position group) baseline tables that prospect metrics
// are normalized against.
package factors

import (
	"context"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/draftedge/farmline/internal/domain/model"
)

// Default builder configuration constants.
const (
	defaultMinGames = 50 // minimum games before a scope earns its own table
)

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithMinGames sets the minimum-game floor for a scope.
func WithMinGames(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.minGames = n
		}
	}
}

// Builder computes factor tables from raw game records.
type Builder struct {
	minGames int
}

// NewBuilder creates a builder with configuration options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{minGames: defaultMinGames}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type leagueKey struct {
	season int
	level  model.Level
}

type positionKey struct {
	season int
	level  model.Level
	group  model.PositionGroup
}

// Tables holds the immutable factor tables for one run. Lookups apply the
// documented fallbacks: a position group below the floor falls back to its
// level-wide table, and a missing (season, level) table falls back to the
// most recent prior season at that level.
type Tables struct {
	league   map[leagueKey]model.LeagueFactor
	position map[positionKey]model.PositionFactor
}

// Build groups games by scope and computes every table that clears the
// minimum-game floor. Independent scopes are computed concurrently.
// Scopes with anomalous totals (e.g. zero at-bats) are dropped rather
// than emitting NaN baselines.
func (b *Builder) Build(ctx context.Context, games []model.GameRecord) (*Tables, error) {
	byLeague := make(map[leagueKey][]model.GameRecord)
	byPosition := make(map[positionKey][]model.GameRecord)
	for _, g := range games {
		if !g.Level.Valid() || g.PA < 0 {
			continue
		}
		lk := leagueKey{season: g.Season, level: g.Level}
		byLeague[lk] = append(byLeague[lk], g)
		pk := positionKey{season: g.Season, level: g.Level, group: groupForPosition(g.Position)}
		byPosition[pk] = append(byPosition[pk], g)
	}

	t := &Tables{
		league:   make(map[leagueKey]model.LeagueFactor, len(byLeague)),
		position: make(map[positionKey]model.PositionFactor, len(byPosition)),
	}

	var mu sync.Mutex
	grp, ctx := errgroup.WithContext(ctx)

	for key, scoped := range byLeague {
		key, scoped := key, scoped
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lf, ok := b.leagueFactor(key, scoped)
			if !ok {
				return nil
			}
			mu.Lock()
			t.league[key] = lf
			mu.Unlock()
			return nil
		})
	}

	for key, scoped := range byPosition {
		key, scoped := key, scoped
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pf, ok := b.positionFactor(key, scoped)
			if !ok {
				return nil
			}
			mu.Lock()
			t.position[key] = pf
			mu.Unlock()
			return nil
		})
	}

	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return t, nil
}

// League returns the factor table for (season, level), falling back to the
// most recent prior season at that level. The second return is false when
// no season has a table for the level.
func (t *Tables) League(season int, level model.Level) (model.LeagueFactor, bool) {
	if lf, ok := t.league[leagueKey{season: season, level: level}]; ok {
		return lf, true
	}
	best := model.LeagueFactor{}
	found := false
	for key, lf := range t.league {
		if key.level != level || key.season >= season {
			continue
		}
		if !found || key.season > best.Season {
			best = lf
			found = true
		}
	}
	return best, found
}

// Position returns the position-scoped table for (season, level, group).
// The second return is false when the group never cleared the floor;
// callers then fall back to the level-wide League table.
func (t *Tables) Position(season int, level model.Level, group model.PositionGroup) (model.PositionFactor, bool) {
	pf, ok := t.position[positionKey{season: season, level: level, group: group}]
	return pf, ok
}

// LeagueCount returns the number of league-scope tables built.
func (t *Tables) LeagueCount() int { return len(t.league) }

// PositionCount returns the number of position-scope tables built.
func (t *Tables) PositionCount() int { return len(t.position) }

func groupForPosition(pos string) model.PositionGroup {
	switch pos {
	case "P", "SP", "RP":
		return model.GroupPitcher
	}
	return model.GroupHitter
}

type battingTotals struct {
	games, pa, ab, h, doubles, triples, hr, bb, hbp, sf, so, sb int
}

func sumBatting(games []model.GameRecord) battingTotals {
	var tot battingTotals
	seen := make(map[string]struct{}, len(games))
	for _, g := range games {
		seen[g.GameID] = struct{}{}
		tot.pa += g.PA
		tot.ab += g.AB
		tot.h += g.H
		tot.doubles += g.Doubles
		tot.triples += g.Triples
		tot.hr += g.HR
		tot.bb += g.BB
		tot.hbp += g.HBP
		tot.sf += g.SF
		tot.so += g.SO
		tot.sb += g.SB
	}
	tot.games = len(seen)
	return tot
}

func (tot battingTotals) rates() (avg, obp, slg float64, ok bool) {
	obpDen := tot.ab + tot.bb + tot.hbp + tot.sf
	if tot.ab == 0 || tot.pa == 0 || obpDen == 0 {
		return 0, 0, 0, false
	}
	singles := tot.h - tot.doubles - tot.triples - tot.hr
	totalBases := singles + 2*tot.doubles + 3*tot.triples + 4*tot.hr
	avg = float64(tot.h) / float64(tot.ab)
	obp = float64(tot.h+tot.bb+tot.hbp) / float64(obpDen)
	slg = float64(totalBases) / float64(tot.ab)
	return avg, obp, slg, true
}

func (b *Builder) leagueFactor(key leagueKey, games []model.GameRecord) (model.LeagueFactor, bool) {
	tot := sumBatting(games)
	if tot.games < b.minGames {
		return model.LeagueFactor{}, false
	}
	avg, obp, slg, ok := tot.rates()
	if !ok {
		return model.LeagueFactor{}, false
	}

	ages := distinctPlayerAges(games)
	mean, median, std, p25, p75 := ageStats(ages)

	pa := float64(tot.pa)
	return model.LeagueFactor{
		Season:      key.season,
		Level:       key.level,
		Games:       tot.games,
		LgAVG:       avg,
		LgOBP:       obp,
		LgSLG:       slg,
		LgOPS:       obp + slg,
		LgISO:       slg - avg,
		LgHRRate:    float64(tot.hr) / pa,
		LgBBRate:    float64(tot.bb) / pa,
		LgSORate:    float64(tot.so) / pa,
		LgSBRate:    float64(tot.sb) / pa,
		LgAvgAge:    mean,
		LgMedianAge: median,
		LgAgeStd:    std,
		LgAge25th:   p25,
		LgAge75th:   p75,
	}, true
}

func (b *Builder) positionFactor(key positionKey, games []model.GameRecord) (model.PositionFactor, bool) {
	tot := sumBatting(games)
	if tot.games < b.minGames {
		return model.PositionFactor{}, false
	}
	avg, obp, slg, ok := tot.rates()
	if !ok {
		return model.PositionFactor{}, false
	}
	mean, _, _, _, _ := ageStats(distinctPlayerAges(games))
	return model.PositionFactor{
		Season:    key.season,
		Level:     key.level,
		Group:     key.group,
		Games:     tot.games,
		PosAVG:    avg,
		PosOBP:    obp,
		PosSLG:    slg,
		PosOPS:    obp + slg,
		PosAvgAge: mean,
	}, true
}

// distinctPlayerAges collects one age per player so heavy game counts do
// not skew the distribution.
func distinctPlayerAges(games []model.GameRecord) []float64 {
	byPlayer := make(map[string]float64, len(games))
	for _, g := range games {
		if g.PlayerAge > 0 {
			byPlayer[g.PlayerID] = g.PlayerAge
		}
	}
	ages := make([]float64, 0, len(byPlayer))
	for _, a := range byPlayer {
		ages = append(ages, a)
	}
	sort.Float64s(ages)
	return ages
}

func ageStats(sorted []float64) (mean, median, std, p25, p75 float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	var sum float64
	for _, a := range sorted {
		sum += a
	}
	mean = sum / float64(n)

	var sq float64
	for _, a := range sorted {
		d := a - mean
		sq += d * d
	}
	std = math.Sqrt(sq / float64(n))

	median = quantileSorted(sorted, 0.50)
	p25 = quantileSorted(sorted, 0.25)
	p75 = quantileSorted(sorted, 0.75)
	return mean, median, std, p25, p75
}

// quantileSorted interpolates the q-th quantile of an ascending slice.
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
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
