package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/telemetry"
)

// Options configures an Evaluator.
type Options struct {
	Presenter Presenter // nil = headless
	Output    *telemetry.OutputManager
	LogPerf   bool
	Champions int // Champion list size
}

// Evaluator plays one round per generation and scores every organism.
// Its Evaluate method is the trainer's fitness callback.
type Evaluator struct {
	cfg   *config.Config
	sheet *sprites.Sheet
	rng   *rand.Rand
	opts  Options

	perf      *telemetry.PerfCollector
	champions *telemetry.Champions

	last      telemetry.RoundOutcome
	bestScore int
	history   []telemetry.GenerationStats
}

// NewEvaluator creates an evaluator drawing pipe heights from rng.
func NewEvaluator(cfg *config.Config, sheet *sprites.Sheet, rng *rand.Rand, opts Options) *Evaluator {
	if opts.Champions < 1 {
		opts.Champions = 10
	}
	e := &Evaluator{
		cfg:       cfg,
		sheet:     sheet,
		rng:       rng,
		opts:      opts,
		champions: telemetry.NewChampions(opts.Champions),
	}
	if opts.LogPerf {
		e.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	}
	return e
}

// Evaluate builds a controller per organism, plays one round and leaves each
// organism's fitness set.
func (e *Evaluator) Evaluate(ctx context.Context, generation int, organisms []*genetics.Organism) error {
	agents := make([]Agent, 0, len(organisms))
	for _, org := range organisms {
		controller, err := neural.NewController(org.Genotype)
		if err != nil {
			return fmt.Errorf("generation %d genome %d: %w", generation, org.Genotype.Id, err)
		}
		agents = append(agents, Agent{Organism: org, Brain: controller})
	}

	slog.Info("generation started", "generation", generation, "birds", len(agents))

	round := NewRound(e.cfg, e.sheet, e.rng, agents)
	round.SetPerf(e.perf)

	start := time.Now()
	err := round.Run(ctx, e.opts.Presenter, generation, e.reportPerf(generation), e.cfg.Telemetry.PerfWindow)
	e.last = telemetry.RoundOutcome{
		Score:    round.Score(),
		Ticks:    round.Ticks(),
		Duration: time.Since(start),
	}
	if round.Score() > e.bestScore {
		e.bestScore = round.Score()
	}

	if n := round.ThinkErrors(); n > 0 {
		slog.Warn("network activation failed", "generation", generation, "count", n)
	}
	if round.Capped() {
		slog.Info("round cut at tick cap", "generation", generation, "ticks", round.Ticks(), "alive", round.Alive())
	}

	return err
}

func (e *Evaluator) reportPerf(generation int) PerfReporter {
	return func(tick int, stats telemetry.PerfStats) {
		stats.LogStats()
		if err := e.opts.Output.WritePerf(stats.ToCSV(generation, tick)); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Record aggregates a finished generation: logs it, appends it to the output
// files and updates the champion list.
func (e *Evaluator) Record(result neural.GenerationResult) telemetry.GenerationStats {
	stats := telemetry.ComputeGenerationStats(result.Generation, result.Fitness, result.Species, e.last)

	if best := result.Best; best != nil && best.Genotype != nil {
		if c, err := neural.NewController(best.Genotype); err == nil {
			stats.BestNodes = c.NodeCount()
			stats.BestLinks = c.LinkCount()
		}

		champion := telemetry.Champion{
			Generation: result.Generation,
			GenomeID:   best.Genotype.Id,
			Fitness:    result.BestFitness,
			Score:      e.last.Score,
			Nodes:      stats.BestNodes,
			Links:      stats.BestLinks,
		}
		if best.Species != nil {
			champion.SpeciesID = best.Species.Id
		}
		e.champions.Consider(champion)
	}

	stats.LogStats()
	if err := e.opts.Output.WriteGeneration(stats); err != nil {
		slog.Error("failed to write generation", "error", err)
	}

	e.history = append(e.history, stats)
	return stats
}

// Finish writes the champion list and the winning genome.
func (e *Evaluator) Finish(winner *genetics.Genome) error {
	if err := e.opts.Output.WriteChampions(e.champions); err != nil {
		return err
	}
	return e.opts.Output.WriteGenome("winner.genome", winner)
}

// BestScore returns the highest round score so far.
func (e *Evaluator) BestScore() int { return e.bestScore }

// History returns the stats of every recorded generation.
func (e *Evaluator) History() []telemetry.GenerationStats { return e.history }

// Champions returns the champion list.
func (e *Evaluator) Champions() *telemetry.Champions { return e.champions }
