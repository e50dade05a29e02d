package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Speed limits in simulation ticks per frame.
const (
	MinSpeed = 1
	MaxSpeed = 20
)

// ControlsLegend describes the keyboard shortcuts.
const ControlsLegend = "SPACE: pause | ,/.: speed | N: network | ESC: quit"

// Controls holds the player-adjustable training state.
type Controls struct {
	Paused      bool
	Speed       int
	ShowNetwork bool

	renderer *Renderer
}

// NewControls creates controls running at the given speed.
func NewControls(speed int) *Controls {
	return &Controls{
		Speed:       clampSpeed(speed),
		ShowNetwork: true,
		renderer:    NewRenderer(),
	}
}

// StepsPerFrame returns how many ticks to simulate this frame, zero when paused.
func (c *Controls) StepsPerFrame() int {
	if c.Paused {
		return 0
	}
	return c.Speed
}

// HandleInput applies keyboard shortcuts.
func (c *Controls) HandleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		c.Paused = !c.Paused
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		c.Speed = clampSpeed(c.Speed - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		c.Speed = clampSpeed(c.Speed + 1)
	}
	if rl.IsKeyPressed(rl.KeyN) {
		c.ShowNetwork = !c.ShowNetwork
	}
}

// Draw renders the control widgets and returns the Y below them.
func (c *Controls) Draw(x, y, width int32) int32 {
	r := c.renderer
	padding := r.Theme.Padding
	height := int32(30+24+30) + padding*4

	r.DrawPanel(x, y, width, height)
	cx := float32(x + padding)
	cy := float32(y + padding)
	inner := float32(width - padding*2)

	rl.DrawText(fmt.Sprintf("Speed: %dx", c.Speed), int32(cx), int32(cy), r.Theme.FontSize, r.Theme.LabelColor)
	cy += float32(r.Theme.LineHeight)

	speed := gui.SliderBar(
		rl.Rectangle{X: cx + 30, Y: cy, Width: inner - 60, Height: 20},
		fmt.Sprint(MinSpeed), fmt.Sprint(MaxSpeed),
		float32(c.Speed), MinSpeed, MaxSpeed,
	)
	c.Speed = clampSpeed(int(speed + 0.5))
	cy += 20 + float32(padding)

	half := (inner - float32(padding)) / 2
	if gui.Button(rl.Rectangle{X: cx, Y: cy, Width: half, Height: 30}, toggleText(c.Paused, "Resume", "Pause")) {
		c.Paused = !c.Paused
	}
	if gui.Button(rl.Rectangle{X: cx + half + float32(padding), Y: cy, Width: half, Height: 30}, toggleText(c.ShowNetwork, "Hide net", "Show net")) {
		c.ShowNetwork = !c.ShowNetwork
	}

	return y + height
}

func clampSpeed(speed int) int {
	return max(MinSpeed, min(MaxSpeed, speed))
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
