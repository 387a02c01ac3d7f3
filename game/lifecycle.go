package game

import (
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/systems"
)

type actFunc func(e ecs.Entity, clock *systems.Clock, newborns *[]ecs.Entity)

// actAll lets every live organism in list order act once. Entries killed
// before their turn are skipped. The returned slice reuses live's backing
// array and holds the organisms still alive after acting.
func (s *Simulator) actAll(live []ecs.Entity, newborns *[]ecs.Entity, act actFunc) []ecs.Entity {
	survivors := live[:0]
	for _, e := range live {
		if !s.eco.Alive(e) {
			s.eco.Remove(e)
			continue
		}
		sp := s.eco.Organism(e).Species
		start := time.Now()
		act(e, s.clock, newborns)
		s.perf.RecordAct(sp, time.Since(start))
		if s.eco.Alive(e) {
			survivors = append(survivors, e)
		} else {
			s.eco.Remove(e)
		}
	}
	clear(live[len(survivors):])
	return survivors
}

// prune drops and releases organisms that died after their own turn.
func (s *Simulator) prune(list []ecs.Entity) []ecs.Entity {
	kept := list[:0]
	for _, e := range list {
		if s.eco.Alive(e) {
			kept = append(kept, e)
			continue
		}
		s.eco.Remove(e)
	}
	clear(list[len(kept):])
	return kept
}

// repopulate seeds grass when the plant population runs low.
func (s *Simulator) repopulate() {
	before := len(s.plants)
	n := s.eco.Repopulate(&s.plants)
	s.collector.RecordRepopulation(n)
	slog.Info("grass repopulated",
		"step", s.clock.Step(),
		"before", before,
		"planted", n,
		"mode", s.cfg.Population.RepopulateMode,
	)
}

// merge appends the step's newborns to the live collections.
func (s *Simulator) merge() {
	s.animals = s.prune(append(s.animals, s.newAnimals...))
	s.plants = s.prune(append(s.plants, s.newPlants...))
	clear(s.newAnimals)
	clear(s.newPlants)
	s.newAnimals = s.newAnimals[:0]
	s.newPlants = s.newPlants[:0]
}
