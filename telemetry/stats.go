package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a step window.
type WindowStats struct {
	WindowStartStep int    `csv:"-"`
	WindowEndStep   int    `csv:"window_end"`
	Day             int    `csv:"day"`
	Season          string `csv:"season"`
	Raining         bool   `csv:"raining"`

	// Population counts at window end
	Grass     int `csv:"grass"`
	Zebra     int `csv:"zebra"`
	Deer      int `csv:"deer"`
	Lion      int `csv:"lion"`
	Bear      int `csv:"bear"`
	Tiger     int `csv:"tiger"`
	Predators int `csv:"predators"`
	Prey      int `csv:"prey"`

	// Events during window
	AnimalBirths       int `csv:"animal_births"`
	GrassBirths        int `csv:"grass_births"`
	OldAgeDeaths       int `csv:"deaths_old_age"`
	StarvationDeaths   int `csv:"deaths_starvation"`
	OvercrowdingDeaths int `csv:"deaths_overcrowding"`
	DiseaseDeaths      int `csv:"deaths_disease"`
	PredationDeaths    int `csv:"deaths_predation"`
	OvergrownDeaths    int `csv:"deaths_overgrown"`
	Meals              int `csv:"meals"`
	Infections         int `csv:"infections"`
	Repopulated        int `csv:"repopulated"`

	// Animal distributions (sampled at window end)
	AgeMean       float64 `csv:"age_mean"`
	AgeStd        float64 `csv:"age_std"`
	AgeP50        float64 `csv:"age_p50"`
	FoodMean      float64 `csv:"food_mean"`
	FoodStd       float64 `csv:"food_std"`
	InfectionMean float64 `csv:"infection_mean"`
	Elevated      int     `csv:"infection_elevated"`

	// Per-species rows, written to species.csv
	Species []SpeciesWindow `csv:"-"`
}

// SpeciesWindow is one species' population and events during a window.
type SpeciesWindow struct {
	WindowEnd   int    `csv:"window_end"`
	Species     string `csv:"species"`
	Count       int    `csv:"count"`
	Births      int    `csv:"births"`
	Deaths      int    `csv:"deaths"`
	OldAge      int    `csv:"deaths_old_age"`
	Starvation  int    `csv:"deaths_starvation"`
	Overcrowded int    `csv:"deaths_overcrowding"`
	Disease     int    `csv:"deaths_disease"`
	Eaten       int    `csv:"deaths_predation"`
	Overgrown   int    `csv:"deaths_overgrown"`
	Meals       int    `csv:"meals"`
	Infections  int    `csv:"infections"`
}

// LogValue implements slog.LogValuer for structured logging.
func (w SpeciesWindow) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", w.Count),
		slog.Int("births", w.Births),
		slog.Int("deaths", w.Deaths),
		slog.Int("meals", w.Meals),
	)
}

// Deaths sums deaths of every cause.
func (s WindowStats) Deaths() int {
	return s.OldAgeDeaths + s.StarvationDeaths + s.OvercrowdingDeaths +
		s.DiseaseDeaths + s.PredationDeaths + s.OvergrownDeaths
}

// speciesColumns lists species in CSV column order.
var speciesColumns = []string{"grass", "zebra", "deer", "lion", "bear", "tiger"}

// SpeciesCounts returns the per-species counts keyed by name.
func (s WindowStats) SpeciesCounts() map[string]int {
	return map[string]int{
		"grass": s.Grass,
		"zebra": s.Zebra,
		"deer":  s.Deer,
		"lion":  s.Lion,
		"bear":  s.Bear,
		"tiger": s.Tiger,
	}
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeStats returns the mean, population standard deviation and median.
func ComputeStats(values []float64) (mean, std, p50 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	mean, std = stat.PopMeanStdDev(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	p50 = Percentile(sorted, 0.50)

	return mean, std, p50
}

// CoefficientOfVariation returns std/mean, or 0 for an empty or zero-mean series.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartStep),
		slog.Int("window_end", s.WindowEndStep),
		slog.Int("day", s.Day),
		slog.String("season", s.Season),
		slog.Bool("raining", s.Raining),
		slog.Int("grass", s.Grass),
		slog.Int("zebra", s.Zebra),
		slog.Int("deer", s.Deer),
		slog.Int("lion", s.Lion),
		slog.Int("bear", s.Bear),
		slog.Int("tiger", s.Tiger),
		slog.Int("animal_births", s.AnimalBirths),
		slog.Int("grass_births", s.GrassBirths),
		slog.Int("deaths", s.Deaths()),
		slog.Int("meals", s.Meals),
		slog.Int("infections", s.Infections),
		slog.Int("repopulated", s.Repopulated),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("food_mean", s.FoodMean),
		slog.Float64("infection_mean", s.InfectionMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	attrs := []any{
		"window_end", s.WindowEndStep,
		"day", s.Day,
		"season", s.Season,
		"raining", s.Raining,
		"grass", s.Grass,
		"zebra", s.Zebra,
		"deer", s.Deer,
		"lion", s.Lion,
		"bear", s.Bear,
		"tiger", s.Tiger,
		"animal_births", s.AnimalBirths,
		"grass_births", s.GrassBirths,
		"deaths_old_age", s.OldAgeDeaths,
		"deaths_starvation", s.StarvationDeaths,
		"deaths_overcrowding", s.OvercrowdingDeaths,
		"deaths_disease", s.DiseaseDeaths,
		"deaths_predation", s.PredationDeaths,
		"deaths_overgrown", s.OvergrownDeaths,
		"meals", s.Meals,
		"infections", s.Infections,
		"repopulated", s.Repopulated,
		"age_mean", s.AgeMean,
		"age_std", s.AgeStd,
		"food_mean", s.FoodMean,
		"infection_elevated", s.Elevated,
	}
	if len(s.Species) > 0 {
		bySpecies := make([]any, 0, 2*len(s.Species))
		for _, w := range s.Species {
			bySpecies = append(bySpecies, w.Species, w)
		}
		attrs = append(attrs, slog.Group("species", bySpecies...))
	}
	slog.Info("stats", attrs...)
}
