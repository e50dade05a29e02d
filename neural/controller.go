package neural

import (
	"fmt"
	"math/rand"

	"github.com/yaricom/goNEAT/v4/neat"
	"github.com/yaricom/goNEAT/v4/neat/genetics"
	neatmath "github.com/yaricom/goNEAT/v4/neat/math"
	"github.com/yaricom/goNEAT/v4/neat/network"
)

// SensorInputs is the number of game observations fed to a controller:
// own y, distance to the gap top, distance to the gap bottom.
const SensorInputs = 3

// ControllerInputs is SensorInputs plus the bias sensor.
const ControllerInputs = SensorInputs + 1

// ControllerOutputs is the number of network outputs (jump).
const ControllerOutputs = 1

// Controller wraps a goNEAT network that decides when a bird jumps.
type Controller struct {
	Genome  *genetics.Genome
	network *network.Network
	inputs  []float64
}

// NewController builds the phenotype network of a genome.
func NewController(genome *genetics.Genome) (*Controller, error) {
	phenotype, err := genome.Genesis(genome.Id)
	if err != nil {
		return nil, fmt.Errorf("failed to build network from genome: %w", err)
	}

	return &Controller{
		Genome:  genome,
		network: phenotype,
		inputs:  make([]float64, ControllerInputs),
	}, nil
}

// Activate feeds the three observations plus bias through the network and
// returns its single output.
func (c *Controller) Activate(y, distTop, distBottom float64) (float64, error) {
	c.inputs[0] = y
	c.inputs[1] = distTop
	c.inputs[2] = distBottom
	c.inputs[3] = 1.0

	outputs, err := c.Think(c.inputs)
	if err != nil {
		return 0, err
	}
	return outputs[0], nil
}

// Think loads sensor values and returns the network outputs.
// Inputs must hold ControllerInputs values with the bias last.
func (c *Controller) Think(inputs []float64) ([]float64, error) {
	if len(inputs) != ControllerInputs {
		return nil, fmt.Errorf("expected %d inputs, got %d", ControllerInputs, len(inputs))
	}

	if err := c.network.LoadSensors(inputs); err != nil {
		return nil, fmt.Errorf("failed to load sensors: %w", err)
	}

	// Activate with depth-based steps for proper signal propagation
	depth, err := c.network.MaxActivationDepth()
	if err != nil || depth < 1 {
		depth = 5
	}

	for i := 0; i < depth; i++ {
		if _, err := c.network.Activate(); err != nil {
			return nil, fmt.Errorf("activation failed: %w", err)
		}
	}

	outputs := c.network.ReadOutputs()
	if len(outputs) < ControllerOutputs {
		return nil, fmt.Errorf("expected %d outputs, got %d", ControllerOutputs, len(outputs))
	}

	if _, err := c.network.Flush(); err != nil {
		return nil, fmt.Errorf("flush failed: %w", err)
	}

	return outputs, nil
}

// NodeCount returns the number of nodes in the network.
func (c *Controller) NodeCount() int {
	return c.network.NodeCount()
}

// LinkCount returns the number of links in the network.
func (c *Controller) LinkCount() int {
	return c.network.LinkCount()
}

// controllerNodes creates the sensor, bias and output nodes of a start genome.
func controllerNodes(trait *neat.Trait, output neatmath.NodeActivationType) []*network.NNode {
	nodes := make([]*network.NNode, 0, ControllerInputs+ControllerOutputs)

	for i := 1; i <= SensorInputs; i++ {
		node := network.NewNNode(i, network.InputNeuron)
		node.ActivationType = neatmath.LinearActivation
		node.Trait = trait
		nodes = append(nodes, node)
	}

	bias := network.NewNNode(ControllerInputs, network.BiasNeuron)
	bias.ActivationType = neatmath.LinearActivation
	bias.Trait = trait
	nodes = append(nodes, bias)

	for i := 1; i <= ControllerOutputs; i++ {
		node := network.NewNNode(ControllerInputs+i, network.OutputNeuron)
		node.ActivationType = output
		node.Trait = trait
		nodes = append(nodes, node)
	}

	return nodes
}

// CreateStartGenome creates the genome the first population is spawned from.
// Each sensor (and the bias) connects to the output with probability
// g.ConnectionProb; at least one link is always present.
func CreateStartGenome(id int, g Genesis, rng *rand.Rand) *genetics.Genome {
	trait := neat.NewTrait()
	trait.Id = 1
	nodes := controllerNodes(trait, g.OutputActivation)

	genes := make([]*genetics.Gene, 0, ControllerInputs*ControllerOutputs)
	innov := int64(1)
	for i := 0; i < ControllerInputs; i++ {
		for j := 0; j < ControllerOutputs; j++ {
			current := innov
			innov++

			if rng.Float64() < g.ConnectionProb {
				gene := genetics.NewGeneWithTrait(
					trait,
					rng.Float64()*2-1,
					nodes[i],
					nodes[ControllerInputs+j],
					false,
					current,
					0,
				)
				genes = append(genes, gene)
			}
		}
	}

	if len(genes) == 0 {
		genes = append(genes, genetics.NewGeneWithTrait(
			trait, rng.Float64()*2-1, nodes[0], nodes[ControllerInputs], false, 1, 0,
		))
	}

	return genetics.NewGenome(id, []*neat.Trait{trait}, nodes, genes)
}

// CreateFixedGenome creates a fully connected start genome with the given link
// weights, in sensor order (y, gap top, gap bottom, bias). Useful for tests and
// for replaying a known controller.
func CreateFixedGenome(id int, weights [ControllerInputs]float64) *genetics.Genome {
	trait := neat.NewTrait()
	trait.Id = 1
	nodes := controllerNodes(trait, DefaultOutputActivation)

	genes := make([]*genetics.Gene, 0, ControllerInputs)
	for i, w := range weights {
		genes = append(genes, genetics.NewGeneWithTrait(
			trait, w, nodes[i], nodes[ControllerInputs], false, int64(i+1), 0,
		))
	}

	return genetics.NewGenome(id, []*neat.Trait{trait}, nodes, genes)
}
