package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	neatPath := flag.String("neat", "", "Base NEAT options file (empty = defaults)")
	generations := flag.Int("generations", 15, "Generations per training run")
	maxRoundTicks := flag.Int("max-round-ticks", 5000, "Cut every round after N ticks")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation (seeds pipe heights and start genomes; NEAT mutation uses the process-wide source)")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	useAssets := flag.Bool("assets", false, "Build collision masks from the sprite images")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *maxRoundTicks <= 0 {
		log.Fatal("--max-round-ticks must be positive, an unbeaten round never ends")
	}

	// Training runs log every generation; keep only warnings
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	cfg.Training.MaxRoundTicks = *maxRoundTicks

	sheet := sprites.SolidSheet(cfg)
	if *useAssets {
		var err error
		if sheet, err = sprites.LoadSheet(cfg); err != nil {
			log.Fatalf("failed to load sprites: %v", err)
		}
	}

	baseOpts, baseSettings, err := neural.LoadOptions(*neatPath, neural.Settings{
		Termination: neural.Termination{
			FitnessThreshold:     cfg.Training.FitnessThreshold,
			NoFitnessTermination: cfg.Training.NoFitnessTermination,
		},
		Genesis: neural.Genesis{
			ConnectionProb:   cfg.Training.StartConnectionProb,
			OutputActivation: neural.DefaultOutputActivation,
		},
	})
	if err != nil {
		log.Fatalf("failed to load NEAT options: %v", err)
	}

	params := NewParamVector(baseOpts)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *neatPath, baseSettings, *generations, evalSeeds, cfg, sheet)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Seeds already run in parallel
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()

	header := []string{"eval", "fitness", "mean_best_score"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	logWriter.Write(header)

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		// Log the clamped values, those are the ones actually used
		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		score := evaluator.LastScore()
		row := []string{strconv.Itoa(evalCount), fmt.Sprintf("%.6f", fitness), fmt.Sprintf("%.2f", score)}
		for _, v := range clamped {
			row = append(row, fmt.Sprintf("%.6f", v))
		}
		logWriter.Write(row)
		logWriter.Flush()

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: fitness=%.1f score=%.1f (best=%.1f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, -fitness, score, -bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, generations per run: %d\n", *seeds, *generations)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("tuning ended: %v", err)
	}

	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.1f\n", -bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	iniPath := filepath.Join(*outputDir, "best_neat.ini")
	if err := params.WriteINI(iniPath, bestParams, baseOpts.PopSize, baseSettings); err != nil {
		log.Printf("failed to write best NEAT options: %v", err)
	} else {
		fmt.Printf("\nBest NEAT options saved to: %s\n", iniPath)
	}

	if champions := evaluator.BestChampions(); champions != nil {
		data, err := champions.MarshalJSON()
		if err != nil {
			log.Printf("failed to marshal champions: %v", err)
		} else if err := os.WriteFile(filepath.Join(*outputDir, "champions.json"), data, 0644); err != nil {
			log.Printf("failed to write champions: %v", err)
		} else {
			fmt.Printf("Champions saved to: %s\n", filepath.Join(*outputDir, "champions.json"))
		}
	}
}
