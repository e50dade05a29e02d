package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeGenerationStats(t *testing.T) {
	fitness := []float64{4, 1, 3, 5, 2}
	round := RoundOutcome{Score: 2, Ticks: 300, Duration: 1500 * time.Millisecond}

	s := ComputeGenerationStats(3, fitness, 2, round)

	if s.Generation != 3 || s.Birds != 5 || s.Species != 2 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.Score != 2 || s.Ticks != 300 || s.DurationMS != 1500 {
		t.Errorf("round outcome not copied: %+v", s)
	}
	if s.Best != 5 || s.Worst != 1 {
		t.Errorf("best/worst = %v/%v, want 5/1", s.Best, s.Worst)
	}
	if math.Abs(s.Mean-3) > 1e-9 {
		t.Errorf("mean = %v, want 3", s.Mean)
	}
	if math.Abs(s.Std-math.Sqrt(2)) > 1e-9 {
		t.Errorf("std = %v, want sqrt(2)", s.Std)
	}
	if math.Abs(s.Median-3) > 1e-9 {
		t.Errorf("median = %v, want 3", s.Median)
	}

	// Input order is left alone
	if fitness[0] != 4 {
		t.Error("ComputeGenerationStats sorted its input")
	}
}

func TestComputeGenerationStatsEmpty(t *testing.T) {
	s := ComputeGenerationStats(1, nil, 0, RoundOutcome{})

	if s.Birds != 0 || s.Best != 0 || s.Mean != 0 || s.Std != 0 {
		t.Errorf("empty generation should have zero stats: %+v", s)
	}
}

func TestComputeGenerationStatsSingle(t *testing.T) {
	s := ComputeGenerationStats(1, []float64{7.5}, 1, RoundOutcome{})

	if s.Best != 7.5 || s.Worst != 7.5 || s.Mean != 7.5 || s.Median != 7.5 {
		t.Errorf("single value stats wrong: %+v", s)
	}
	if s.Std != 0 {
		t.Errorf("std = %v, want 0", s.Std)
	}
}
