// Package fixture generates deterministic synthetic snapshots for demos,
// load tests, and local development.
package fixture

import (
	"fmt"
	"math/rand"

	"github.com/draftedge/farmline/internal/domain/model"
)

// Default generation parameters.
const (
	defaultSeed          = 1
	defaultProspectCount = 400
	defaultSeason        = 2025

	playersPerLevel = 120
	gamesPerLevel   = 80
	lineupSize      = 18

	// Share of prospects that land in each degraded-data bucket.
	thinSampleShare   = 0.08
	gameLogOnlyShare  = 0.12
	missingGradeShare = 0.05
	trendShare        = 0.25
)

var organizations = []string{"NYM", "BOS", "LAD", "SEA", "TB", "BAL", "ATL", "CLE"}

var hitterPositions = []string{"C", "1B", "2B", "3B", "SS", "LF", "CF", "RF"}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed fixes the random source. Same seed, same snapshot.
func WithSeed(seed int64) Option {
	return func(g *Generator) { g.seed = seed }
}

// WithProspectCount sets how many prospects to generate.
func WithProspectCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.prospects = n
		}
	}
}

// WithSeason sets the generated season.
func WithSeason(season int) Option {
	return func(g *Generator) {
		if season > 0 {
			g.season = season
		}
	}
}

// Generator builds synthetic snapshots.
type Generator struct {
	seed      int64
	prospects int
	season    int
}

// NewGenerator creates a generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		seed:      defaultSeed,
		prospects: defaultProspectCount,
		season:    defaultSeason,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Snapshot generates one complete snapshot: prospects spread across levels
// and organizations, factor-table games at every level, and realistic
// gaps (thin samples, game-log-only prospects, missing grades).
func (g *Generator) Snapshot() *model.Snapshot {
	rng := rand.New(rand.NewSource(g.seed))
	snap := &model.Snapshot{Season: g.season}

	for _, level := range model.Levels() {
		g.generateGames(rng, snap, level)
	}
	for i := 0; i < g.prospects; i++ {
		g.generateProspect(rng, snap, i)
	}
	return snap
}

// generateGames emits a season's worth of games at one level so factor
// tables always clear the minimum-games floor.
func (g *Generator) generateGames(rng *rand.Rand, snap *model.Snapshot, level model.Level) {
	ages := make([]float64, playersPerLevel)
	positions := make([]string, playersPerLevel)
	for p := range ages {
		ages[p] = levelBaseAge(level) + rng.Float64()*4 - 2
		if p%4 == 0 {
			positions[p] = "SP"
		} else {
			positions[p] = hitterPositions[p%len(hitterPositions)]
		}
	}

	for game := 0; game < gamesPerLevel; game++ {
		gameID := fmt.Sprintf("%s-g-%d", level, game)
		for slot := 0; slot < lineupSize; slot++ {
			p := (game*lineupSize + slot) % playersPerLevel
			ab := 3 + rng.Intn(3)
			hits := rng.Intn(ab + 1)
			if hits > 3 {
				hits = 3
			}
			snap.Games = append(snap.Games, model.GameRecord{
				GameID:    gameID,
				PlayerID:  fmt.Sprintf("%s-pl-%d", level, p),
				Season:    g.season,
				Level:     level,
				Position:  positions[p],
				PlayerAge: ages[p],
				PA:        ab + rng.Intn(2),
				AB:        ab,
				H:         hits,
				Doubles:   boolToInt(hits > 1 && rng.Float64() < 0.3),
				HR:        boolToInt(hits > 0 && rng.Float64() < 0.1),
				BB:        rng.Intn(2),
				SO:        rng.Intn(3),
				SB:        boolToInt(rng.Float64() < 0.08),
			})
		}
	}
}

func (g *Generator) generateProspect(rng *rand.Rand, snap *model.Snapshot, i int) {
	id := fmt.Sprintf("prospect-%04d", i)
	level := model.Levels()[i%len(model.Levels())]
	isPitcher := rng.Float64() < 0.4
	position := hitterPositions[rng.Intn(len(hitterPositions))]
	if isPitcher {
		position = "SP"
	}
	age := levelBaseAge(level) + rng.NormFloat64()*1.5

	snap.Prospects = append(snap.Prospects, model.Prospect{
		ID:           id,
		Name:         fmt.Sprintf("Prospect %04d", i),
		Position:     position,
		Organization: organizations[i%len(organizations)],
		Level:        level,
		Age:          age,
	})

	if rng.Float64() >= missingGradeShare {
		snap.Grades = append(snap.Grades, model.ScoutingGrade{
			ProspectID: id,
			Source:     "internal",
			OverallFV:  float64(35 + 5*rng.Intn(6)),
		})
	}

	roll := rng.Float64()
	switch {
	case roll < thinSampleShare:
		// Thin pitch sample and no game log: insufficient_data.
		snap.PitchMetrics = append(snap.PitchMetrics, g.pitchSet(rng, id, level, 20+rng.Intn(60)))
	case roll < thinSampleShare+gameLogOnlyShare:
		snap.GameLogs = append(snap.GameLogs, g.gameLog(rng, id, level, isPitcher))
	default:
		snap.PitchMetrics = append(snap.PitchMetrics, g.pitchSet(rng, id, level, 120+rng.Intn(400)))
	}

	if rng.Float64() < trendShare {
		snap.Trends = append(snap.Trends, g.trend(rng, id, isPitcher))
	}
}

func (g *Generator) pitchSet(rng *rand.Rand, id string, level model.Level, sample int) model.PitchMetricSet {
	set := model.PitchMetricSet{
		ProspectID:  id,
		Season:      g.season,
		Level:       level,
		SampleSize:  sample,
		ContactRate: 0.62 + rng.Float64()*0.25,
		WhiffRate:   0.15 + rng.Float64()*0.20,
		ChaseRate:   0.20 + rng.Float64()*0.18,
	}
	if rng.Float64() < 0.7 {
		set.HardHitRate = ptr(0.25 + rng.Float64()*0.25)
		set.ExitVelo90th = ptr(98 + rng.Float64()*10)
	}
	if rng.Float64() < 0.5 {
		set.ZoneRate = ptr(0.40 + rng.Float64()*0.15)
		set.AvgFBVelo = ptr(90 + rng.Float64()*8)
		set.HardContactRate = ptr(0.28 + rng.Float64()*0.20)
	}
	return set
}

func (g *Generator) gameLog(rng *rand.Rand, id string, level model.Level, isPitcher bool) model.GameLogAggregate {
	gl := model.GameLogAggregate{
		ProspectID:  id,
		Season:      g.season,
		Level:       level,
		DaysCovered: 35 + rng.Intn(80),
		PA:          120 + rng.Intn(300),
	}
	if isPitcher {
		gl.ERA = ptr(2.5 + rng.Float64()*3.5)
		gl.WHIP = ptr(1.0 + rng.Float64()*0.6)
		gl.KPer9 = ptr(6 + rng.Float64()*6)
		gl.BBPer9 = ptr(2 + rng.Float64()*3)
	} else {
		gl.OPS = ptr(0.600 + rng.Float64()*0.350)
	}
	return gl
}

func (g *Generator) trend(rng *rand.Rand, id string, isPitcher bool) model.TrendWindows {
	metric := model.MetricContactRate
	if isPitcher {
		metric = model.MetricWhiffRate
	}
	baseRate := 0.55 + rng.Float64()*0.2
	shift := rng.Float64()*0.2 - 0.07 // skews positive: more breakouts than declines
	trials := 150 + rng.Intn(150)

	return model.TrendWindows{
		ProspectID:   id,
		RecentDays:   30,
		BaselineDays: 60,
		Recent: []model.WindowSample{{
			Metric:    metric,
			Successes: clampTrials(int(float64(trials)*(baseRate+shift)), trials),
			Trials:    trials,
		}},
		Baseline: []model.WindowSample{{
			Metric:    metric,
			Successes: clampTrials(int(float64(trials)*baseRate), trials),
			Trials:    trials,
		}},
	}
}

// levelBaseAge is a typical player age for a level.
func levelBaseAge(level model.Level) float64 {
	switch level {
	case model.LevelRookie:
		return 19
	case model.LevelLowA:
		return 20.5
	case model.LevelHighA:
		return 21.5
	case model.LevelAA:
		return 23
	case model.LevelAAA:
		return 25
	}
	return 22
}

func clampTrials(successes, trials int) int {
	if successes < 0 {
		return 0
	}
	if successes > trials {
		return trials
	}
	return successes
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func ptr(v float64) *float64 { return &v }
