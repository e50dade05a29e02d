package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/renderer"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	neatPath := flag.String("neat", "", "Path to NEAT options: goNEAT .yml/.neat or neat-python .ini/.txt (empty = defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	noAssets := flag.Bool("no-assets", false, "Use rectangular sprites instead of image files")
	generations := flag.Int("generations", 0, "Generations to train (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed for pipe heights and start genomes (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and genomes")
	maxRoundTicks := flag.Int("max-round-ticks", -1, "Cut every round after N ticks (0 = unlimited, -1 = use config)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Initial simulation ticks per frame (0 = use config)")
	logPerf := flag.Bool("log-perf", false, "Log per-phase tick timings via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *generations > 0 {
		cfg.Training.Generations = *generations
	}
	if *maxRoundTicks >= 0 {
		cfg.Training.MaxRoundTicks = *maxRoundTicks
	}
	if *stepsPerUpdate > 0 {
		cfg.Training.StepsPerUpdate = *stepsPerUpdate
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	if err := run(cfg, *neatPath, *outputDir, rngSeed, rng, *headless, !*noAssets, *logPerf); err != nil {
		slog.Error("training failed", "error", err)
		os.Exit(1)
	}
}

// trainingSettings are the stop conditions and start genome a NEAT config
// file may override.
func trainingSettings(cfg *config.Config) neural.Settings {
	return neural.Settings{
		Termination: neural.Termination{
			FitnessThreshold:     cfg.Training.FitnessThreshold,
			NoFitnessTermination: cfg.Training.NoFitnessTermination,
		},
		Genesis: neural.Genesis{
			ConnectionProb:   cfg.Training.StartConnectionProb,
			OutputActivation: neural.DefaultOutputActivation,
		},
	}
}

func run(cfg *config.Config, neatPath, outputDir string, seed int64, rng *rand.Rand, headless, useAssets, logPerf bool) error {
	opts, settings, err := neural.LoadOptions(neatPath, trainingSettings(cfg))
	if err != nil {
		return err
	}

	var sheet *sprites.Sheet
	if useAssets {
		if sheet, err = sprites.LoadSheet(cfg); err != nil {
			return err
		}
	} else {
		sheet = sprites.SolidSheet(cfg)
	}

	out, err := telemetry.NewOutputManager(outputDir, telemetry.NewRunID())
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	trainer, err := neural.NewTrainer(opts, settings, rng)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var (
		presenter game.Presenter
		window    *renderer.Window
	)
	if headless {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
	} else {
		if window, err = renderer.NewWindow(cfg, useAssets); err != nil {
			return err
		}
		defer window.Close()
		presenter = window
	}

	evaluator := game.NewEvaluator(cfg, sheet, rng, game.Options{
		Presenter: presenter,
		Output:    out,
		LogPerf:   logPerf,
	})

	slog.Info("starting training",
		"seed", seed,
		"run_id", out.RunID(),
		"headless", headless,
		"pop_size", opts.PopSize,
		"generations", cfg.Training.Generations,
		"fitness_threshold", settings.FitnessThreshold,
		"no_fitness_termination", settings.NoFitnessTermination,
		"start_connection_prob", settings.ConnectionProb,
	)

	start := time.Now()
	err = trainer.Run(ctx, cfg.Training.Generations, evaluator.Evaluate, func(result neural.GenerationResult) {
		evaluator.Record(result)
		if window != nil {
			_, best := trainer.Best()
			window.SetTrainingInfo(renderer.TrainingInfo{
				Species:     trainer.SpeciesCount(),
				BestFitness: best,
				BestScore:   evaluator.BestScore(),
			})
		}
	})

	switch {
	case err == nil:
		slog.Info("generation limit reached", "generations", trainer.Generation())
	case errors.Is(err, neural.ErrThresholdReached):
		slog.Info("fitness threshold reached", "generation", trainer.Generation(), "threshold", settings.FitnessThreshold)
	case errors.Is(err, game.ErrQuit):
		slog.Info("window closed", "generation", trainer.Generation())
	case errors.Is(err, context.Canceled):
		slog.Info("interrupted", "generation", trainer.Generation())
	default:
		return err
	}

	if err := evaluator.Finish(trainer.BestGenome()); err != nil {
		return err
	}

	logSummary(trainer, evaluator, time.Since(start))
	return nil
}

func logSummary(trainer *neural.Trainer, evaluator *game.Evaluator, elapsed time.Duration) {
	best, fitness := trainer.Best()
	if best == nil || best.Genotype == nil {
		slog.Info("training finished without an evaluated generation")
		return
	}

	var ticks int
	for _, s := range evaluator.History() {
		ticks += s.Ticks
	}

	args := []any{
		"generations", trainer.Generation(),
		"best_fitness", humanize.FormatFloat("#,###.##", fitness),
		"best_score", humanize.Comma(int64(evaluator.BestScore())),
		"winner_genome", best.Genotype.Id,
		"solved", trainer.Solved(),
		"total_ticks", humanize.Comma(int64(ticks)),
		"elapsed", elapsed.Round(time.Millisecond).String(),
	}
	if c, err := neural.NewController(best.Genotype); err == nil {
		args = append(args, "nodes", c.NodeCount(), "links", c.LinkCount())
	}
	if champ, ok := evaluator.Champions().Best(); ok {
		args = append(args, "champion_generation", champ.Generation, "champion_score", champ.Score)
	}
	slog.Info("training finished", args...)
}
