package neural

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"
)

// ErrThresholdReached is returned by Run when an organism reached the
// configured fitness threshold.
var ErrThresholdReached = errors.New("fitness threshold reached")

// FitnessFunc evaluates one generation. It must set Fitness on every organism.
type FitnessFunc func(ctx context.Context, generation int, organisms []*genetics.Organism) error

// GenerationResult summarizes one evaluated generation, read before the epoch
// rewrites the organisms' fitness.
type GenerationResult struct {
	Generation  int
	Fitness     []float64
	Species     int
	Best        *genetics.Organism
	BestFitness float64
}

// Trainer drives a goNEAT population one generation at a time.
type Trainer struct {
	opts       *neat.Options
	term       Termination
	population *genetics.Population
	executor   genetics.PopulationEpochExecutor

	generation  int
	best        *genetics.Organism
	bestFitness float64
	solved      bool
}

// NewTrainer spawns the initial population from the start genome settings
// describes.
func NewTrainer(opts *neat.Options, settings Settings, rng *rand.Rand) (*Trainer, error) {
	applyOptionDefaults(opts)

	start := CreateStartGenome(1, settings.Genesis, rng)
	pop, err := genetics.NewPopulation(start, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create population: %w", err)
	}

	var executor genetics.PopulationEpochExecutor
	switch opts.EpochExecutorType {
	case neat.EpochExecutorTypeParallel:
		executor = &genetics.ParallelPopulationEpochExecutor{}
	default:
		executor = &genetics.SequentialPopulationEpochExecutor{}
	}

	return &Trainer{
		opts:       opts,
		term:       settings.Termination,
		population: pop,
		executor:   executor,
	}, nil
}

// Options returns the NEAT options the trainer runs with.
func (t *Trainer) Options() *neat.Options {
	return t.opts
}

// Generation returns the number of generations evaluated so far.
func (t *Trainer) Generation() int {
	return t.generation
}

// Organisms returns the current population members.
func (t *Trainer) Organisms() []*genetics.Organism {
	return t.population.Organisms
}

// SpeciesCount returns the number of live species.
func (t *Trainer) SpeciesCount() int {
	return len(t.population.Species)
}

// Best returns the fittest organism seen and its raw fitness.
func (t *Trainer) Best() (*genetics.Organism, float64) {
	return t.best, t.bestFitness
}

// BestGenome returns the genotype of the fittest organism seen, or nil.
func (t *Trainer) BestGenome() *genetics.Genome {
	if t.best == nil {
		return nil
	}
	return t.best.Genotype
}

// Solved reports whether the fitness threshold has been reached.
func (t *Trainer) Solved() bool {
	return t.solved
}

// RunGeneration evaluates the current population and, unless the fitness
// threshold was reached, reproduces the next one.
func (t *Trainer) RunGeneration(ctx context.Context, fn FitnessFunc) (GenerationResult, error) {
	t.generation++
	result := GenerationResult{
		Generation: t.generation,
		Species:    len(t.population.Species),
	}

	organisms := t.population.Organisms
	if err := fn(ctx, t.generation, organisms); err != nil {
		return result, err
	}

	result.Fitness = make([]float64, len(organisms))
	for i, org := range organisms {
		result.Fitness[i] = org.Fitness
		if result.Best == nil || org.Fitness > result.BestFitness {
			result.Best = org
			result.BestFitness = org.Fitness
		}
	}

	if result.Best != nil && (t.best == nil || result.BestFitness > t.bestFitness) {
		t.best = result.Best
		t.bestFitness = result.BestFitness
	}

	if !t.term.NoFitnessTermination && result.Best != nil && result.BestFitness >= t.term.FitnessThreshold {
		result.Best.IsWinner = true
		t.solved = true
		return result, nil
	}

	if err := t.executor.NextEpoch(neat.NewContext(ctx, t.opts), t.generation, t.population); err != nil {
		return result, fmt.Errorf("epoch %d: %w", t.generation, err)
	}

	return result, nil
}

// Run evaluates up to generations generations, stopping early when the fitness
// threshold is reached (ErrThresholdReached) or ctx is cancelled. The
// observe callback, if set, sees every generation result.
func (t *Trainer) Run(ctx context.Context, generations int, fn FitnessFunc, observe func(GenerationResult)) error {
	for i := 0; i < generations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := t.RunGeneration(ctx, fn)
		if err != nil {
			return err
		}
		if observe != nil {
			observe(result)
		}
		if t.solved {
			return ErrThresholdReached
		}
	}
	return nil
}
