package main

import (
	"math"
	"path/filepath"
	"testing"

	neatmath "github.com/yaricom/goNEAT/v4/neat/math"

	"github.com/pthm-cable/flappy/neural"
)

func TestNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector(neural.DefaultNEATOptions())

	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestDefaultsWithinBounds(t *testing.T) {
	opts := neural.DefaultNEATOptions()
	opts.CompatThreshold = 100

	pv := NewParamVector(opts)
	for _, spec := range pv.Specs {
		if spec.Default < spec.Min || spec.Default > spec.Max {
			t.Errorf("%s default %v outside [%v, %v]", spec.Name, spec.Default, spec.Min, spec.Max)
		}
	}
}

func TestApplyToOptionsClamps(t *testing.T) {
	pv := NewParamVector(neural.DefaultNEATOptions())
	opts := neural.DefaultNEATOptions()

	values := make([]float64, pv.Dim())
	for i := range values {
		values[i] = 1e6
	}
	pv.ApplyToOptions(opts, values)

	for _, spec := range pv.Specs {
		if got := spec.get(opts); got != spec.Max {
			t.Errorf("%s = %v, want clamped to %v", spec.Name, got, spec.Max)
		}
	}
}

func TestWriteINIRoundtrip(t *testing.T) {
	pv := NewParamVector(neural.DefaultNEATOptions())
	values := []float64{2.5, 0.4, 0.1, 0.7, 1.2, 0.3}
	settings := neural.Settings{
		Termination: neural.Termination{FitnessThreshold: 150},
		Genesis:     neural.Genesis{ConnectionProb: 0.5, OutputActivation: neatmath.TanhActivation},
	}

	path := filepath.Join(t.TempDir(), "best_neat.ini")
	if err := pv.WriteINI(path, values, 30, settings); err != nil {
		t.Fatalf("WriteINI failed: %v", err)
	}

	fallback := neural.Settings{
		Termination: neural.Termination{NoFitnessTermination: true},
		Genesis:     neural.DefaultGenesis(),
	}
	opts, got, err := neural.LoadOptions(path, fallback)
	if err != nil {
		t.Fatalf("LoadOptions failed: %v", err)
	}
	if opts.PopSize != 30 {
		t.Errorf("pop_size = %d, want 30", opts.PopSize)
	}
	if got != settings {
		t.Errorf("settings = %+v, want %+v", got, settings)
	}
	for i, spec := range pv.Specs {
		if got := spec.get(opts); math.Abs(got-values[i]) > 1e-6 {
			t.Errorf("%s = %v, want %v", spec.Name, got, values[i])
		}
	}
}

func TestComputeFitness(t *testing.T) {
	tests := []struct {
		name string
		best []float64
		want float64
	}{
		{"identical seeds", []float64{10, 10, 10}, -12},
		{"zero fitness", []float64{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeFitness(tt.best); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeFitness(%v) = %v, want %v", tt.best, got, tt.want)
			}
		})
	}

	spread := computeFitness([]float64{5, 15})
	steady := computeFitness([]float64{10, 10})
	if spread <= steady {
		t.Errorf("consistent seeds should score better: spread=%v steady=%v", spread, steady)
	}
}
