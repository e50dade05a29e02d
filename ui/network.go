package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/yaricom/goNEAT/v4/neat/genetics"
	"github.com/yaricom/goNEAT/v4/neat/network"
)

// sensorLabels name the input nodes in sensor order.
var sensorLabels = []string{"y", "top", "bottom", "bias"}

// NetworkPanel draws the genome steering the lead bird.
type NetworkPanel struct {
	renderer *Renderer
}

// NewNetworkPanel creates a new network panel.
func NewNetworkPanel() *NetworkPanel {
	return &NetworkPanel{renderer: NewRenderer()}
}

// Draw renders the panel with a header and the network graph.
func (n *NetworkPanel) Draw(x, y, width, height int32, genome *genetics.Genome, color rl.Color) {
	r := n.renderer
	padding := r.Theme.Padding

	r.DrawPanel(x, y, width, height)
	cy := r.DrawSectionHeader(x+padding, y+padding, "Lead network")

	if genome == nil {
		rl.DrawText("no birds left", x+padding, cy, r.Theme.FontSize, r.Theme.LabelColor)
		return
	}

	rl.DrawRectangle(x+padding, cy+2, 10, 10, color)
	rl.DrawText(fmt.Sprintf("genome %d: %d nodes, %d genes", genome.Id, len(genome.Nodes), len(genome.Genes)),
		x+padding+16, cy, r.Theme.FontSize, r.Theme.LabelColor)
	cy += r.Theme.LineHeight + 4

	n.drawGraph(x+padding, cy, width-padding*2, y+height-cy-padding, genome)
}

func (n *NetworkPanel) drawGraph(x, y, width, height int32, genome *genetics.Genome) {
	rl.DrawRectangle(x, y, width, height, rl.Color{R: 30, G: 35, B: 40, A: 255})

	var inputNodes, outputNodes, hiddenNodes []*network.NNode
	for _, node := range genome.Nodes {
		switch node.NeuronType {
		case network.InputNeuron, network.BiasNeuron:
			inputNodes = append(inputNodes, node)
		case network.OutputNeuron:
			outputNodes = append(outputNodes, node)
		case network.HiddenNeuron:
			hiddenNodes = append(hiddenNodes, node)
		}
	}

	positions := make(map[int]rl.Vector2)
	padding := float32(15)
	labelWidth := float32(50)
	inner := float32(height) - padding*2

	inputSpacing := inner / float32(max(len(inputNodes), 1))
	for i, node := range inputNodes {
		positions[node.Id] = rl.Vector2{
			X: float32(x) + labelWidth,
			Y: float32(y) + padding + float32(i)*inputSpacing + inputSpacing/2,
		}
	}

	outputSpacing := inner / float32(max(len(outputNodes), 1))
	for i, node := range outputNodes {
		positions[node.Id] = rl.Vector2{
			X: float32(x+width) - padding*2,
			Y: float32(y) + padding + float32(i)*outputSpacing + outputSpacing/2,
		}
	}

	// Hidden nodes fill middle columns of eight
	if len(hiddenNodes) > 0 {
		cols := (len(hiddenNodes) + 7) / 8
		span := float32(width) - labelWidth - padding*2
		colWidth := span / float32(cols+1)
		for i, node := range hiddenNodes {
			col := i / 8
			row := i % 8
			positions[node.Id] = rl.Vector2{
				X: float32(x) + labelWidth + colWidth*float32(col+1),
				Y: float32(y) + padding + float32(row)*inner/8 + inner/16,
			}
		}
	}

	for _, gene := range genome.Genes {
		if !gene.IsEnabled || gene.Link == nil {
			continue
		}
		inPos, ok1 := positions[gene.Link.InNode.Id]
		outPos, ok2 := positions[gene.Link.OutNode.Id]
		if !ok1 || !ok2 {
			continue
		}

		weight := gene.Link.ConnectionWeight
		alpha := uint8(min(255, int(math.Abs(weight)*100)+50))
		lineColor := rl.Color{R: 200, G: 100, B: 100, A: alpha}
		if weight > 0 {
			lineColor = rl.Color{R: 100, G: 200, B: 100, A: alpha}
		}
		thick := float32(1 + min(math.Abs(weight), 3))
		rl.DrawLineEx(inPos, outPos, thick, lineColor)
	}

	nodeRadius := float32(5)
	for i, node := range inputNodes {
		pos := positions[node.Id]
		rl.DrawCircleV(pos, nodeRadius, rl.Color{R: 100, G: 150, B: 255, A: 255})
		if i < len(sensorLabels) {
			rl.DrawText(sensorLabels[i], x+4, int32(pos.Y)-6, 12, rl.LightGray)
		}
	}
	for _, node := range outputNodes {
		pos := positions[node.Id]
		rl.DrawCircleV(pos, nodeRadius, rl.Color{R: 255, G: 180, B: 100, A: 255})
		rl.DrawText("jump", int32(pos.X)-12, int32(pos.Y)+8, 12, rl.LightGray)
	}
	for _, node := range hiddenNodes {
		rl.DrawCircleV(positions[node.Id], nodeRadius-1, rl.Color{R: 180, G: 180, B: 180, A: 255})
	}
}
