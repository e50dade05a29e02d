package game

import (
	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flappy/systems"
)

// BirdView is the drawable state of one bird.
type BirdView struct {
	X, Y      float64
	Tilt      float64
	Frame     int
	SpeciesID int
	GenomeID  int
}

// Snapshot is a read-only copy of a round for drawing one frame.
type Snapshot struct {
	Generation int
	Score      int
	Tick       int
	Alive      int
	Population int

	Birds []BirdView
	Pipes []systems.PipeView

	BaseX1, BaseX2, BaseY float64

	// Lead is the genome steering the first live bird, nil when none is left.
	Lead        *genetics.Genome
	LeadFitness float64
}

// Snapshot copies the drawable state of the round.
func (r *Round) Snapshot(generation int) Snapshot {
	s := Snapshot{
		Generation: generation,
		Score:      r.score,
		Tick:       r.ticks,
		Alive:      len(r.birds),
		Population: r.population,
		Birds:      make([]BirdView, len(r.birds)),
		Pipes:      r.pipes.Pipes(),
		BaseX1:     r.base.X1,
		BaseX2:     r.base.X2,
		BaseY:      r.base.Y,
	}

	for i, b := range r.birds {
		view := BirdView{X: b.X, Y: b.Y, Tilt: b.Tilt, Frame: b.Frame()}
		if org := r.organisms[i]; org != nil {
			if org.Species != nil {
				view.SpeciesID = org.Species.Id
			}
			if org.Genotype != nil {
				view.GenomeID = org.Genotype.Id
			}
		}
		s.Birds[i] = view
	}

	if len(r.organisms) > 0 && r.organisms[0] != nil {
		s.Lead = r.organisms[0].Genotype
		s.LeadFitness = r.organisms[0].Fitness
	}

	return s
}
