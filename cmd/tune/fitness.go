package main

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/telemetry"
)

// FitnessEvaluator trains headless populations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	neatPath    string
	settings    neural.Settings
	generations int
	seeds       []int64
	cfg         *config.Config
	sheet       *sprites.Sheet

	// Best run tracking
	mu            sync.Mutex
	bestFitness   float64
	bestChampions *telemetry.Champions
	lastScore     float64 // mean best score from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. cfg and sheet are shared
// read-only by every run. settings are the start genome and stop conditions
// used when the NEAT file leaves them out.
func NewFitnessEvaluator(params *ParamVector, neatPath string, settings neural.Settings, generations int, seeds []int64, cfg *config.Config, sheet *sprites.Sheet) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		neatPath:    neatPath,
		settings:    settings,
		generations: generations,
		seeds:       seeds,
		cfg:         cfg,
		sheet:       sheet,
		bestFitness: math.Inf(1),
	}
}

// BestChampions returns the champion list of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestChampions() *telemetry.Champions {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestChampions
}

// LastScore returns the mean best round score of the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// runResult holds the results from a single training run.
type runResult struct {
	bestFitness float64
	bestScore   int
	champions   *telemetry.Champions
	err         error
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runTraining(x, s)
		}(i, seed)
	}
	wg.Wait()

	best := make([]float64, 0, len(results))
	var scoreSum float64
	var bestSeed *runResult
	for i := range results {
		r := &results[i]
		if r.err != nil {
			continue
		}
		best = append(best, r.bestFitness)
		scoreSum += float64(r.bestScore)
		if bestSeed == nil || r.bestFitness > bestSeed.bestFitness {
			bestSeed = r
		}
	}
	if len(best) == 0 {
		return math.Inf(1)
	}

	fitness := computeFitness(best)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestChampions = bestSeed.champions
	}
	fe.lastScore = scoreSum / float64(len(best))
	fe.mu.Unlock()

	return fitness
}

// runTraining trains one population for the configured generations. The seed
// fixes pipe heights and the start genome only: goNEAT draws mutations and
// mating from the global math/rand source, which every run shares.
func (fe *FitnessEvaluator) runTraining(x []float64, seed int64) runResult {
	opts, settings, err := neural.LoadOptions(fe.neatPath, fe.settings)
	if err != nil {
		return runResult{err: err}
	}
	fe.params.ApplyToOptions(opts, x)
	settings.NoFitnessTermination = true

	rng := rand.New(rand.NewSource(seed))
	trainer, err := neural.NewTrainer(opts, settings, rng)
	if err != nil {
		return runResult{err: err}
	}

	evaluator := game.NewEvaluator(fe.cfg, fe.sheet, rng, game.Options{})
	err = trainer.Run(context.Background(), fe.generations, evaluator.Evaluate, func(r neural.GenerationResult) {
		evaluator.Record(r)
	})
	if err != nil {
		return runResult{err: err}
	}

	_, bestFitness := trainer.Best()
	return runResult{
		bestFitness: bestFitness,
		bestScore:   evaluator.BestScore(),
		champions:   evaluator.Champions(),
	}
}

// computeFitness turns the per-seed best fitness into a scalar (lower = better):
// -(mean × (1 + 0.2 × consistency)). The mean dominates; consistency across
// seeds adds up to 20%.
func computeFitness(best []float64) float64 {
	mean, std := stat.PopMeanStdDev(best, nil)
	consistency := 0.0
	if mean > 0 {
		consistency = clamp01(1 - std/mean)
	}
	return -(mean * (1.0 + 0.2*consistency))
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
