package main

import (
	"context"
	"math"
	"sync"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/game"
	"github.com/pthm-cable/savanna/systems"
	"github.com/pthm-cable/savanna/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxSteps    int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxSteps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxSteps:    maxSteps,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 24, // one simulated day per window
	}
}

// Minimum viable population: if predators or prey stay below this for
// extinctionGraceSteps consecutive steps, the run counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceSteps = 48
	warmupSteps          = 24
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalSteps int                     // steps before functional extinction (or maxSteps if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	summary       []telemetry.SpeciesSummary
}

// Evaluation is the outcome of one parameter vector averaged over the seeds.
type Evaluation struct {
	Fitness  float64 // lower is better
	Survival float64 // mean steps survived
	Quality  float64

	// Share of seeds in which each species was still alive at the end
	SpeciesSurvival [components.NumSpecies]float64
}

// Evaluate runs every seed in parallel on x.
// Fitness is negative survival steps scaled by quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) Evaluation {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var ev Evaluation
	for _, r := range results {
		quality := fe.computeQuality(r.windowStats)
		ev.Fitness += -(float64(r.survivalSteps) * (1.0 + 0.2*quality))
		ev.Survival += float64(r.survivalSteps)
		ev.Quality += quality
		for _, row := range r.summary {
			if sp, ok := components.ParseSpecies(row.Species); ok && row.Survived() {
				ev.SpeciesSurvival[sp]++
			}
		}
	}

	n := float64(len(fe.seeds))
	ev.Fitness /= n
	ev.Survival /= n
	ev.Quality /= n
	for sp := range ev.SpeciesSurvival {
		ev.SpeciesSurvival[sp] /= n
	}
	return ev
}

// survivalView reports the run non-viable once a role is gone or has stayed
// below minViablePop for the grace period.
type survivalView struct {
	game.HeadlessView
	belowSteps int
}

func (v *survivalView) IsViable(snap systems.Snapshot) bool {
	pred := snap.RoleCount(components.RolePredator)
	prey := snap.RoleCount(components.RolePrey)
	if pred == 0 || prey == 0 {
		return false
	}
	if snap.Step < warmupSteps {
		return true
	}
	if pred < minViablePop || prey < minViablePop {
		v.belowSteps++
	} else {
		v.belowSteps = 0
	}
	return v.belowSteps < extinctionGraceSteps
}

// runSimulation executes a single headless simulation run.
// Runs until functional extinction or maxSteps, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	sim, err := game.NewSimulator(cfg, &survivalView{}, game.Options{
		Seed:        seed,
		StatsWindow: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return result
	}
	defer sim.Close()

	result.survivalSteps = sim.Simulate(context.Background(), fe.maxSteps)
	result.summary = sim.Summary()
	return result
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.40
	qualityWeightStability = 0.35
	qualityWeightGrass     = 0.25

	qualityWarmupWindows = 3   // skip first N windows (warmup)
	qualityMinPop        = 3   // exclude windows where either role < this
	targetPreyPerPred    = 4.0 // prey per predator considered healthy
	targetGrassShare     = 0.4 // share of cells covered by grass
	grassShareTolerance  = 0.2
)

// computeQuality computes ecosystem quality in [0, 1] from window stats.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	depth, width := fe.baseConfig.World.Depth, fe.baseConfig.World.Width
	if depth <= 0 || width <= 0 {
		depth, width = game.DefaultDepth, game.DefaultWidth
	}
	cells := float64(depth * width)

	var ratioSum, grassSum float64
	var count int
	preyCounts := make([]float64, 0, len(valid))
	predCounts := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.Prey < qualityMinPop || w.Predators < qualityMinPop {
			continue
		}
		preyCounts = append(preyCounts, float64(w.Prey))
		predCounts = append(predCounts, float64(w.Predators))

		// 1. Population ratio score
		ratio := float64(w.Prey) / float64(w.Predators)
		logErr := math.Log(ratio / targetPreyPerPred)
		ratioSum += math.Exp(-logErr * logErr)

		// 3. Grass cover score
		share := float64(w.Grass) / cells
		grassSum += math.Exp(-math.Pow((share-targetGrassShare)/grassShareTolerance, 2))
		count++
	}

	if count == 0 {
		return 0
	}

	// 2. Population stability (CV across all valid windows)
	stabilityScore := 0.0
	if len(preyCounts) >= 2 {
		cvPrey := telemetry.CoefficientOfVariation(preyCounts)
		cvPred := telemetry.CoefficientOfVariation(predCounts)
		stabilityScore = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	quality := qualityWeightRatio*ratioSum/float64(count) +
		qualityWeightStability*stabilityScore +
		qualityWeightGrass*grassSum/float64(count)

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
