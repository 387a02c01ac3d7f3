// Package main provides CMA-ES optimization for finding species parameters
// that keep predators and prey alive together for as long as possible.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

type options struct {
	configPath string
	maxSteps   int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&opts.maxSteps, "max-steps", 4000, "Step budget per run")
	flag.IntVar(&opts.seeds, "seeds", 3, "Number of seeds per evaluation")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	// Simulator lifecycle events are noise at this scale
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	progress := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if err := run(opts, progress); err != nil {
		fmt.Fprintln(os.Stderr, "optimize:", err)
		os.Exit(1)
	}
}

func run(opts options, progress *slog.Logger) error {
	if opts.outputDir == "" {
		return errors.New("-output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	baseCfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, opts.maxSteps, seeds, baseCfg)

	logFile, err := os.Create(filepath.Join(opts.outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()
	searchLog, err := newSearchLog(logFile, params, baseCfg)
	if err != nil {
		return fmt.Errorf("writing log header: %w", err)
	}

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(params.Dim())/2.0)
	}

	best := &bestTracker{params: params}
	evals := 0
	started := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			ev := evaluator.Evaluate(values)
			evals++

			if err := searchLog.record(evals, ev, values); err != nil {
				slog.Warn("failed to write log row", "error", err)
			}
			if best.offer(evals, ev, values) {
				logBest(progress, evals, ev, params, values, searchLog.species)
			}

			elapsed := time.Since(started)
			eta := time.Duration(opts.maxEvals-evals) * (elapsed / time.Duration(evals))
			progress.Info("eval",
				"n", evals,
				"of", opts.maxEvals,
				"survived", int(ev.Survival),
				"quality", round2(ev.Quality),
				"best_survived", int(best.best.Survival),
				"elapsed", elapsed.Round(time.Second),
				"eta", eta.Round(time.Second),
			)
			return ev.Fitness
		},
	}

	progress.Info("starting CMA-ES",
		"params", params.Dim(),
		"population", popSize,
		"max_evals", opts.maxEvals,
		"seeds", opts.seeds,
		"max_steps", opts.maxSteps,
	)

	_, err = optimize.Minimize(problem,
		params.Normalize(params.DefaultVector()),
		&optimize.Settings{FuncEvaluations: opts.maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		progress.Info("optimization ended", "reason", err)
	}
	if best.values == nil {
		return errors.New("no evaluations completed")
	}

	progress.Info("optimization complete",
		"evals", evals,
		"duration", time.Since(started).Round(time.Second),
		"best_eval", best.eval,
		"best_fitness", best.best.Fitness,
	)

	if err := best.writeResults(filepath.Join(opts.outputDir, "best_params.csv")); err != nil {
		return err
	}
	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, best.values)
	configPath := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	progress.Info("best config saved", "path", configPath)
	return nil
}

// logBest reports a new best with the survival share of every animal
// species and its parameter values.
func logBest(l *slog.Logger, eval int, ev Evaluation, params *ParamVector, values []float64, species []components.Species) {
	survival := make([]any, 0, 2*len(species))
	for _, sp := range species {
		survival = append(survival, sp.String(), round2(ev.SpeciesSurvival[sp]))
	}
	vals := make([]any, 0, 2*len(values))
	for i, spec := range params.Specs {
		vals = append(vals, spec.Name, round2(values[i]))
	}
	l.Info("new best",
		"eval", eval,
		"survived", int(ev.Survival),
		"quality", round2(ev.Quality),
		slog.Group("survival", survival...),
		slog.Group("params", vals...),
	)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
