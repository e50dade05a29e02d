package neural

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaricom/goNEAT/v4/neat"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
)

// Termination holds the stop conditions read alongside the NEAT options.
type Termination struct {
	FitnessThreshold     float64
	NoFitnessTermination bool
}

// DefaultOutputActivation is the jump node's activation when no config names one.
const DefaultOutputActivation = neatmath.SigmoidSteepenedActivation

// Genesis describes the genome the first population is spawned from.
type Genesis struct {
	// ConnectionProb is the chance of each input-to-output link existing.
	ConnectionProb   float64
	OutputActivation neatmath.NodeActivationType
}

// DefaultGenesis fully connects the start genome with the default output activation.
func DefaultGenesis() Genesis {
	return Genesis{ConnectionProb: 1.0, OutputActivation: DefaultOutputActivation}
}

// Settings holds what a NEAT config file decides besides neat.Options.
type Settings struct {
	Termination
	Genesis
}

// DefaultNEATOptions returns NEAT options tuned for the flappy controllers.
func DefaultNEATOptions() *neat.Options {
	opts := &neat.Options{
		// Trait mutation
		TraitParamMutProb:  0.5,
		TraitMutationPower: 1.0,

		// Weight mutation
		WeightMutPower: 2.5,

		// Structural mutation rates
		MutateAddNodeProb:      0.03,
		MutateAddLinkProb:      0.3,
		MutateToggleEnableProb: 0.01,
		MutateGeneReenableProb: 0.01,

		// Weight mutation probability
		MutateLinkWeightsProb: 0.8,
		MutateOnlyProb:        0.25,
		MutateRandomTraitProb: 0.1,
		MutateLinkTraitProb:   0.1,
		MutateNodeTraitProb:   0.1,

		// Mating probabilities
		MateMultipointProb:    0.6,
		MateMultipointAvgProb: 0.4,
		MateSinglepointProb:   0.0,
		MateOnlyProb:          0.2,
		RecurOnlyProb:         0.0,
		InterspeciesMateRate:  0.001,

		// Speciation
		CompatThreshold: 3.0,
		DisjointCoeff:   1.0,
		ExcessCoeff:     1.0,
		MutdiffCoeff:    0.5,

		// Species management
		DropOffAge:      20,
		SurvivalThresh:  0.2,
		AgeSignificance: 1.0,
		BabiesStolen:    0,
		NewLinkTries:    20,

		PopSize:        50,
		NumRuns:        1,
		NumGenerations: 10,
		PrintEvery:     1,
	}
	applyOptionDefaults(opts)
	return opts
}

// applyOptionDefaults fills settings the trainer cannot run without.
func applyOptionDefaults(opts *neat.Options) {
	if opts.EpochExecutorType == "" {
		opts.EpochExecutorType = neat.EpochExecutorTypeSequential
	}
	if opts.GenCompatMethod == "" {
		opts.GenCompatMethod = neat.GenomeCompatibilityMethodFast
	}
	if len(opts.NodeActivators) == 0 {
		opts.NodeActivators = []neatmath.NodeActivationType{neatmath.SigmoidSteepenedActivation}
		opts.NodeActivatorsProb = []float64{1.0}
	}
	if opts.PopSize <= 0 {
		opts.PopSize = 50
	}
	if opts.NewLinkTries <= 0 {
		opts.NewLinkTries = 20
	}
}

// LoadOptions reads NEAT options from path. The format follows the file
// extension: goNEAT YAML or plain (.yml, .yaml, .neat) or a neat-python INI
// (.ini, .txt, .cfg). An empty path yields the defaults. Stop conditions and
// start genome settings the file does not set are taken from fallback.
func LoadOptions(path string, fallback Settings) (*neat.Options, Settings, error) {
	if path == "" {
		return DefaultNEATOptions(), fallback, nil
	}

	settings := fallback
	var (
		opts *neat.Options
		err  error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml", ".neat":
		opts, err = neat.ReadNeatOptionsFromFile(path)
		if err != nil {
			return nil, settings, fmt.Errorf("reading NEAT options %s: %w", path, err)
		}
	case ".ini", ".txt", ".cfg":
		opts, settings, err = LoadINIOptions(path, fallback)
		if err != nil {
			return nil, settings, err
		}
	default:
		return nil, settings, fmt.Errorf("unsupported NEAT config format %q", ext)
	}

	applyOptionDefaults(opts)
	return opts, settings, nil
}
