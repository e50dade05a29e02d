// Package main tunes NEAT hyperparameters with CMA-ES by training headless
// populations and scoring how far their best birds get.
package main

import (
	"fmt"
	"strconv"

	"github.com/yaricom/goNEAT/v4/neat"
	"gopkg.in/ini.v1"

	"github.com/pthm-cable/flappy/neural"
)

// ParamSpec defines a single tunable NEAT option.
type ParamSpec struct {
	Name    string // neat-python key
	Section string // neat-python section
	Min     float64
	Max     float64
	Default float64

	get func(o *neat.Options) float64
	set func(o *neat.Options, v float64)
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the tunable parameter set. Defaults are read from
// base and clamped into each range.
func NewParamVector(base *neat.Options) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "compatibility_threshold", Section: "DefaultSpeciesSet", Min: 0.5, Max: 6.0,
				get: func(o *neat.Options) float64 { return o.CompatThreshold },
				set: func(o *neat.Options, v float64) { o.CompatThreshold = v }},
			{Name: "conn_add_prob", Section: "DefaultGenome", Min: 0.02, Max: 0.9,
				get: func(o *neat.Options) float64 { return o.MutateAddLinkProb },
				set: func(o *neat.Options, v float64) { o.MutateAddLinkProb = v }},
			{Name: "node_add_prob", Section: "DefaultGenome", Min: 0.005, Max: 0.5,
				get: func(o *neat.Options) float64 { return o.MutateAddNodeProb },
				set: func(o *neat.Options, v float64) { o.MutateAddNodeProb = v }},
			{Name: "weight_mutate_rate", Section: "DefaultGenome", Min: 0.1, Max: 1.0,
				get: func(o *neat.Options) float64 { return o.MutateLinkWeightsProb },
				set: func(o *neat.Options, v float64) { o.MutateLinkWeightsProb = v }},
			{Name: "weight_mutate_power", Section: "DefaultGenome", Min: 0.1, Max: 3.0,
				get: func(o *neat.Options) float64 { return o.WeightMutPower },
				set: func(o *neat.Options, v float64) { o.WeightMutPower = v }},
			{Name: "survival_threshold", Section: "DefaultReproduction", Min: 0.1, Max: 0.6,
				get: func(o *neat.Options) float64 { return o.SurvivalThresh },
				set: func(o *neat.Options, v float64) { o.SurvivalThresh = v }},
		},
	}

	for i := range pv.Specs {
		s := &pv.Specs[i]
		s.Default = min(s.Max, max(s.Min, s.get(base)))
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(spec.Max, max(spec.Min, v[i]))
	}
	return clamped
}

// ApplyToOptions writes clamped parameter values into opts.
func (pv *ParamVector) ApplyToOptions(opts *neat.Options, values []float64) {
	for i, v := range pv.Clamp(values) {
		pv.Specs[i].set(opts, v)
	}
}

// WriteINI saves the values as a neat-python config that the trainer's -neat
// flag reads back, together with the stop conditions and start genome.
func (pv *ParamVector) WriteINI(path string, values []float64, popSize int, settings neural.Settings) error {
	file := ini.Empty()

	neatSection, err := file.NewSection("NEAT")
	if err != nil {
		return err
	}
	entries := [][2]string{
		{"fitness_criterion", "max"},
		{"fitness_threshold", strconv.FormatFloat(settings.FitnessThreshold, 'g', -1, 64)},
		{"no_fitness_termination", strconv.FormatBool(settings.NoFitnessTermination)},
		{"pop_size", strconv.Itoa(popSize)},
	}
	for _, e := range entries {
		if _, err := neatSection.NewKey(e[0], e[1]); err != nil {
			return err
		}
	}

	genome, err := file.NewSection("DefaultGenome")
	if err != nil {
		return err
	}
	if _, err := genome.NewKey("num_inputs", strconv.Itoa(neural.SensorInputs)); err != nil {
		return err
	}
	if _, err := genome.NewKey("num_outputs", strconv.Itoa(neural.ControllerOutputs)); err != nil {
		return err
	}
	if _, err := genome.NewKey("initial_connection", initialConnection(settings.ConnectionProb)); err != nil {
		return err
	}
	act, ok := neural.ActivationName(settings.OutputActivation)
	if !ok {
		return fmt.Errorf("output activation %v has no neat-python name", settings.OutputActivation)
	}
	if _, err := genome.NewKey("activation_default", act); err != nil {
		return err
	}

	for i, v := range pv.Clamp(values) {
		spec := pv.Specs[i]
		if _, err := file.Section(spec.Section).NewKey(spec.Name, strconv.FormatFloat(v, 'f', 6, 64)); err != nil {
			return fmt.Errorf("[%s] %s: %w", spec.Section, spec.Name, err)
		}
	}

	return file.SaveTo(path)
}

func initialConnection(p float64) string {
	if p >= 1 {
		return "full"
	}
	return "partial_direct " + strconv.FormatFloat(p, 'g', -1, 64)
}
