package neural

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaricom/goNEAT/v4/neat"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
	"gopkg.in/ini.v1"
)

// iniFloatKeys maps neat-python float settings onto goNEAT options.
var iniFloatKeys = []struct {
	section, key string
	set          func(o *neat.Options, v float64)
}{
	{"DefaultSpeciesSet", "compatibility_threshold", func(o *neat.Options, v float64) { o.CompatThreshold = v }},
	{"DefaultGenome", "compatibility_disjoint_coefficient", func(o *neat.Options, v float64) {
		o.DisjointCoeff = v
		o.ExcessCoeff = v
	}},
	{"DefaultGenome", "compatibility_weight_coefficient", func(o *neat.Options, v float64) { o.MutdiffCoeff = v }},
	{"DefaultGenome", "conn_add_prob", func(o *neat.Options, v float64) { o.MutateAddLinkProb = v }},
	{"DefaultGenome", "node_add_prob", func(o *neat.Options, v float64) { o.MutateAddNodeProb = v }},
	{"DefaultGenome", "weight_mutate_rate", func(o *neat.Options, v float64) { o.MutateLinkWeightsProb = v }},
	{"DefaultGenome", "weight_mutate_power", func(o *neat.Options, v float64) { o.WeightMutPower = v }},
	{"DefaultGenome", "enabled_mutate_rate", func(o *neat.Options, v float64) { o.MutateToggleEnableProb = v }},
	{"DefaultReproduction", "survival_threshold", func(o *neat.Options, v float64) { o.SurvivalThresh = v }},
}

// iniActivations maps neat-python activation names onto goNEAT activators.
var iniActivations = map[string]neatmath.NodeActivationType{
	"sigmoid":  neatmath.SigmoidSteepenedActivation,
	"tanh":     neatmath.TanhActivation,
	"sin":      neatmath.SineActivation,
	"gauss":    neatmath.GaussianBipolarActivation,
	"identity": neatmath.LinearActivation,
	"clamped":  neatmath.LinearClippedActivation,
	"abs":      neatmath.LinearAbsActivation,
}

// ActivationName returns the neat-python name of a goNEAT activator.
func ActivationName(act neatmath.NodeActivationType) (string, bool) {
	for name, a := range iniActivations {
		if a == act {
			return name, true
		}
	}
	return "", false
}

// LoadINIOptions reads a neat-python config-feedforward file. Settings it
// does not name keep their DefaultNEATOptions values or, for the stop
// conditions and the start genome, the fallback.
func LoadINIOptions(path string, fallback Settings) (*neat.Options, Settings, error) {
	settings := fallback

	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return nil, settings, fmt.Errorf("failed to load config file '%s': %w", path, err)
	}

	opts := DefaultNEATOptions()

	neatSection := file.Section("NEAT")
	if key, err := neatSection.GetKey("pop_size"); err == nil {
		if opts.PopSize, err = key.Int(); err != nil {
			return nil, settings, fmt.Errorf("[NEAT] pop_size: %w", err)
		}
	}
	if key, err := neatSection.GetKey("fitness_threshold"); err == nil {
		if settings.FitnessThreshold, err = key.Float64(); err != nil {
			return nil, settings, fmt.Errorf("[NEAT] fitness_threshold: %w", err)
		}
	}
	if key, err := neatSection.GetKey("no_fitness_termination"); err == nil {
		if settings.NoFitnessTermination, err = key.Bool(); err != nil {
			return nil, settings, fmt.Errorf("[NEAT] no_fitness_termination: %w", err)
		}
	}

	for _, k := range iniFloatKeys {
		key, err := file.Section(k.section).GetKey(k.key)
		if err != nil {
			continue
		}
		v, err := key.Float64()
		if err != nil {
			return nil, settings, fmt.Errorf("[%s] %s: %w", k.section, k.key, err)
		}
		k.set(opts, v)
	}

	if key, err := file.Section("DefaultStagnation").GetKey("max_stagnation"); err == nil {
		if opts.DropOffAge, err = key.Int(); err != nil {
			return nil, settings, fmt.Errorf("[DefaultStagnation] max_stagnation: %w", err)
		}
	}

	genome := file.Section("DefaultGenome")
	if err := checkIOCount(genome, "num_inputs", SensorInputs); err != nil {
		return nil, settings, err
	}
	if err := checkIOCount(genome, "num_outputs", ControllerOutputs); err != nil {
		return nil, settings, err
	}

	if key, err := genome.GetKey("num_hidden"); err == nil {
		hidden, err := key.Int()
		if err != nil {
			return nil, settings, fmt.Errorf("[DefaultGenome] num_hidden: %w", err)
		}
		if hidden != 0 {
			return nil, settings, fmt.Errorf("[DefaultGenome] num_hidden = %d, start genomes have no hidden nodes", hidden)
		}
	}

	if key, err := genome.GetKey("initial_connection"); err == nil {
		if settings.ConnectionProb, err = parseInitialConnection(key.String()); err != nil {
			return nil, settings, err
		}
	}

	if key, err := genome.GetKey("activation_default"); err == nil {
		act, ok := iniActivations[strings.ToLower(strings.TrimSpace(key.String()))]
		if !ok {
			return nil, settings, fmt.Errorf("[DefaultGenome] activation_default: unsupported activation %q", key.String())
		}
		settings.OutputActivation = act
	}

	if key, err := genome.GetKey("activation_options"); err == nil {
		activators, err := parseActivations(key.String())
		if err != nil {
			return nil, settings, err
		}
		opts.NodeActivators = activators
		opts.NodeActivatorsProb = make([]float64, len(activators))
		for i := range activators {
			opts.NodeActivatorsProb[i] = 1.0 / float64(len(activators))
		}
	}

	return opts, settings, nil
}

// checkIOCount rejects configs whose network shape differs from the controller's.
func checkIOCount(section *ini.Section, name string, want int) error {
	key, err := section.GetKey(name)
	if err != nil {
		return nil
	}
	got, err := key.Int()
	if err != nil {
		return fmt.Errorf("[DefaultGenome] %s: %w", name, err)
	}
	if got != want {
		return fmt.Errorf("[DefaultGenome] %s = %d, controllers use %d", name, got, want)
	}
	return nil
}

// parseInitialConnection maps neat-python's initial_connection onto the
// chance of each input-to-output link. Start genomes have no hidden nodes,
// so the direct and nodirect variants read the same.
func parseInitialConnection(value string) (float64, error) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return 0, fmt.Errorf("[DefaultGenome] initial_connection is empty")
	}

	switch fields[0] {
	case "full", "full_direct", "full_nodirect":
		if len(fields) != 1 {
			return 0, fmt.Errorf("[DefaultGenome] initial_connection %q takes no probability", value)
		}
		return 1.0, nil
	case "partial", "partial_direct", "partial_nodirect":
		if len(fields) != 2 {
			return 0, fmt.Errorf("[DefaultGenome] initial_connection %q needs a probability", value)
		}
		p, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || p < 0 || p > 1 {
			return 0, fmt.Errorf("[DefaultGenome] initial_connection probability %q must be in [0, 1]", fields[1])
		}
		return p, nil
	default:
		return 0, fmt.Errorf("[DefaultGenome] unsupported initial_connection %q", value)
	}
}

func parseActivations(value string) ([]neatmath.NodeActivationType, error) {
	var out []neatmath.NodeActivationType
	for _, name := range strings.Fields(value) {
		act, ok := iniActivations[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unsupported activation %q", name)
		}
		out = append(out, act)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("activation_options is empty")
	}
	return out, nil
}
