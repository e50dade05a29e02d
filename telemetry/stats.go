// Package telemetry records per-generation statistics, tick timing and run
// output files.
package telemetry

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenerationStats holds the aggregated outcome of one evaluated generation.
type GenerationStats struct {
	Generation int     `csv:"generation"`
	Birds      int     `csv:"birds"`
	Score      int     `csv:"score"`
	Ticks      int     `csv:"ticks"`
	Species    int     `csv:"species"`
	Best       float64 `csv:"best"`
	Mean       float64 `csv:"mean"`
	Std        float64 `csv:"std"`
	Median     float64 `csv:"median"`
	P90        float64 `csv:"p90"`
	Worst      float64 `csv:"worst"`
	BestNodes  int     `csv:"best_nodes"`
	BestLinks  int     `csv:"best_links"`
	DurationMS int64   `csv:"duration_ms"`
}

// RoundOutcome is what a finished round reports about itself.
type RoundOutcome struct {
	Score    int
	Ticks    int
	Duration time.Duration
}

// ComputeGenerationStats aggregates raw fitness values of one generation.
func ComputeGenerationStats(generation int, fitness []float64, species int, round RoundOutcome) GenerationStats {
	s := GenerationStats{
		Generation: generation,
		Birds:      len(fitness),
		Score:      round.Score,
		Ticks:      round.Ticks,
		Species:    species,
		DurationMS: round.Duration.Milliseconds(),
	}
	if len(fitness) == 0 {
		return s
	}

	s.Best = floats.Max(fitness)
	s.Worst = floats.Min(fitness)
	s.Mean, s.Std = stat.PopMeanStdDev(fitness, nil)

	sorted := make([]float64, len(fitness))
	copy(sorted, fitness)
	sort.Float64s(sorted)
	s.Median = Percentile(sorted, 0.5)
	s.P90 = Percentile(sorted, 0.9)

	return s
}

// Percentile returns the empirical p-th quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = math.Max(0, math.Min(1, p))
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s GenerationStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("generation", s.Generation),
		slog.Int("birds", s.Birds),
		slog.Int("score", s.Score),
		slog.Int("ticks", s.Ticks),
		slog.Int("species", s.Species),
		slog.Float64("best", s.Best),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("median", s.Median),
		slog.Float64("worst", s.Worst),
		slog.Int64("duration_ms", s.DurationMS),
	)
}

// LogStats logs the generation stats using slog.
func (s GenerationStats) LogStats() {
	slog.Info("generation",
		"generation", s.Generation,
		"birds", s.Birds,
		"score", s.Score,
		"ticks", s.Ticks,
		"species", s.Species,
		"best", s.Best,
		"mean", s.Mean,
		"std", s.Std,
		"median", s.Median,
		"p90", s.P90,
		"worst", s.Worst,
		"best_nodes", s.BestNodes,
		"best_links", s.BestLinks,
		"duration_ms", s.DurationMS,
	)
}
