package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/savanna/components"
)

// Phase is a timed section of the simulation step.
type Phase uint8

const (
	PhaseClock Phase = iota
	PhaseAnimals
	PhasePlants
	PhaseRepopulate
	PhaseMerge
	PhasePublish
	NumPhases
)

var phaseNames = [NumPhases]string{"clock", "animals", "plants", "repopulate", "merge", "publish"}

func (p Phase) String() string {
	if p >= NumPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// stepSample is the timing of one step.
type stepSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
	acts   [components.NumSpecies]time.Duration
	actN   [components.NumSpecies]int
}

// PerfCollector times step phases and organism acts over a rolling window
// of steps.
type PerfCollector struct {
	ring   []stepSample
	next   int
	filled int

	cur        stepSample
	stepStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector keeps the last windowSize steps.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]stepSample, windowSize)}
}

// StartStep begins timing a new step.
func (p *PerfCollector) StartStep() {
	p.cur = stepSample{}
	p.stepStart = time.Now()
	p.inPhase = false
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.endPhase(now)
	p.phase, p.phaseStart, p.inPhase = phase, now, phase < NumPhases
}

func (p *PerfCollector) endPhase(now time.Time) {
	if p.inPhase {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.inPhase = false
	}
}

// RecordAct adds the duration of one organism act of species s.
func (p *PerfCollector) RecordAct(s components.Species, d time.Duration) {
	if s >= components.NumSpecies {
		return
	}
	p.cur.acts[s] += d
	p.cur.actN[s]++
}

// EndStep closes the step and stores it in the window.
func (p *PerfCollector) EndStep() {
	now := time.Now()
	p.endPhase(now)
	p.cur.total = now.Sub(p.stepStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

// RecordFrame records the time since the previous draw frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds timing aggregated over the window.
type PerfStats struct {
	Steps           int
	AvgStepDuration time.Duration
	MinStepDuration time.Duration
	MaxStepDuration time.Duration
	StepsPerSecond  float64

	// Share of step time per phase, in percent
	PhasePct [NumPhases]float64

	// Mean cost of one act and mean acts per step, per species
	ActCost     [components.NumSpecies]time.Duration
	ActsPerStep [components.NumSpecies]float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{Steps: p.filled, FrameDuration: p.frame}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return out
	}

	var total time.Duration
	var phases [NumPhases]time.Duration
	var acts [components.NumSpecies]time.Duration
	var actN [components.NumSpecies]int
	for i, s := range p.ring[:p.filled] {
		total += s.total
		if i == 0 || s.total < out.MinStepDuration {
			out.MinStepDuration = s.total
		}
		out.MaxStepDuration = max(out.MaxStepDuration, s.total)
		for ph, d := range s.phases {
			phases[ph] += d
		}
		for sp, d := range s.acts {
			acts[sp] += d
			actN[sp] += s.actN[sp]
		}
	}

	out.AvgStepDuration = total / time.Duration(p.filled)
	if out.AvgStepDuration > 0 {
		out.StepsPerSecond = float64(time.Second) / float64(out.AvgStepDuration)
	}
	if total > 0 {
		for ph, d := range phases {
			out.PhasePct[ph] = float64(d) / float64(total) * 100
		}
	}
	for sp, n := range actN {
		if n == 0 {
			continue
		}
		out.ActCost[sp] = acts[sp] / time.Duration(n)
		out.ActsPerStep[sp] = float64(n) / float64(p.filled)
	}
	return out
}

// Costliest returns the species that spent the most time acting per step.
func (s PerfStats) Costliest() (components.Species, time.Duration) {
	best, bestCost := components.SpeciesNone, time.Duration(0)
	for sp := components.Grass; sp < components.NumSpecies; sp++ {
		cost := time.Duration(float64(s.ActCost[sp]) * s.ActsPerStep[sp])
		if cost > bestCost {
			best, bestCost = sp, cost
		}
	}
	return best, bestCost
}

// LogStats logs the window timing.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_step_us", s.AvgStepDuration.Microseconds(),
		"max_step_us", s.MaxStepDuration.Microseconds(),
		"steps_per_sec", int(s.StepsPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", int(pct*10)/10.0)
		}
	}
	if sp, cost := s.Costliest(); sp != components.SpeciesNone {
		attrs = append(attrs, "costliest", sp.String(), "costliest_us_per_step", cost.Microseconds())
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_step_us", s.AvgStepDuration.Microseconds()),
		slog.Float64("steps_per_sec", s.StepsPerSecond),
	}
	for sp := components.Grass; sp < components.NumSpecies; sp++ {
		if s.ActsPerStep[sp] > 0 {
			attrs = append(attrs, slog.Int64(sp.String()+"_act_ns", s.ActCost[sp].Nanoseconds()))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int     `csv:"window_end"`
	AvgStepUS     int64   `csv:"avg_step_us"`
	MinStepUS     int64   `csv:"min_step_us"`
	MaxStepUS     int64   `csv:"max_step_us"`
	StepsPerSec   float64 `csv:"steps_per_sec"`
	FPS           float64 `csv:"fps"`
	ClockPct      float64 `csv:"clock_pct"`
	AnimalsPct    float64 `csv:"animals_pct"`
	PlantsPct     float64 `csv:"plants_pct"`
	RepopulatePct float64 `csv:"repopulate_pct"`
	MergePct      float64 `csv:"merge_pct"`
	PublishPct    float64 `csv:"publish_pct"`
	GrassActNS    int64   `csv:"grass_act_ns"`
	ZebraActNS    int64   `csv:"zebra_act_ns"`
	DeerActNS     int64   `csv:"deer_act_ns"`
	LionActNS     int64   `csv:"lion_act_ns"`
	BearActNS     int64   `csv:"bear_act_ns"`
	TigerActNS    int64   `csv:"tiger_act_ns"`
}

// ToCSV flattens the stats of the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgStepUS:     s.AvgStepDuration.Microseconds(),
		MinStepUS:     s.MinStepDuration.Microseconds(),
		MaxStepUS:     s.MaxStepDuration.Microseconds(),
		StepsPerSec:   s.StepsPerSecond,
		FPS:           s.FPS,
		ClockPct:      s.PhasePct[PhaseClock],
		AnimalsPct:    s.PhasePct[PhaseAnimals],
		PlantsPct:     s.PhasePct[PhasePlants],
		RepopulatePct: s.PhasePct[PhaseRepopulate],
		MergePct:      s.PhasePct[PhaseMerge],
		PublishPct:    s.PhasePct[PhasePublish],
		GrassActNS:    s.ActCost[components.Grass].Nanoseconds(),
		ZebraActNS:    s.ActCost[components.Zebra].Nanoseconds(),
		DeerActNS:     s.ActCost[components.Deer].Nanoseconds(),
		LionActNS:     s.ActCost[components.Lion].Nanoseconds(),
		BearActNS:     s.ActCost[components.Bear].Nanoseconds(),
		TigerActNS:    s.ActCost[components.Tiger].Nanoseconds(),
	}
}
