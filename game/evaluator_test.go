package game

import (
	"context"
	"math/rand"
	"testing"

	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
)

func newTestOrganisms(n int) []*genetics.Organism {
	rng := rand.New(rand.NewSource(7))
	organisms := make([]*genetics.Organism, n)
	for i := range organisms {
		organisms[i] = &genetics.Organism{
			Genotype: neural.CreateStartGenome(i+1, neural.DefaultGenesis(), rng),
			Species:  &genetics.Species{Id: 1 + i%2},
		}
	}
	return organisms
}

func TestEvaluatorEvaluate(t *testing.T) {
	cfg := config.Default()
	cfg.Training.MaxRoundTicks = 500
	e := NewEvaluator(cfg, sprites.SolidSheet(cfg), rand.New(rand.NewSource(1)), Options{LogPerf: true})

	organisms := newTestOrganisms(6)
	if err := e.Evaluate(context.Background(), 1, organisms); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	for i, org := range organisms {
		// Every bird lives at least one tick
		if org.Fitness == 0 {
			t.Errorf("organism %d was not scored", i)
		}
	}
	if e.last.Ticks == 0 {
		t.Error("round outcome not recorded")
	}
}

func TestEvaluatorRecord(t *testing.T) {
	cfg := config.Default()
	e := NewEvaluator(cfg, sprites.SolidSheet(cfg), rand.New(rand.NewSource(1)), Options{Champions: 2})

	organisms := newTestOrganisms(3)
	result := neural.GenerationResult{
		Generation:  1,
		Fitness:     []float64{1, 4, 2},
		Species:     2,
		Best:        organisms[1],
		BestFitness: 4,
	}

	stats := e.Record(result)
	if stats.Generation != 1 || stats.Birds != 3 || stats.Best != 4 || stats.Species != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.BestNodes != neural.ControllerInputs+neural.ControllerOutputs {
		t.Errorf("best nodes = %d", stats.BestNodes)
	}
	if stats.BestLinks != neural.ControllerInputs {
		t.Errorf("best links = %d", stats.BestLinks)
	}

	best, ok := e.Champions().Best()
	if !ok || best.GenomeID != organisms[1].Genotype.Id || best.SpeciesID != organisms[1].Species.Id {
		t.Errorf("unexpected champion: %+v", best)
	}
	if len(e.History()) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(e.History()))
	}

	// Output disabled: finishing is a no-op
	if err := e.Finish(organisms[1].Genotype); err != nil {
		t.Errorf("Finish failed: %v", err)
	}
}
