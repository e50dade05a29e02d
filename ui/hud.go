package ui

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the training panel shows.
type HUDData struct {
	Generation  int
	Score       int
	BestScore   int
	Alive       int
	Population  int
	Species     int
	Tick        int
	BestFitness float64
	LeadFitness float64
	Speed       int
	FPS         int32
	Paused      bool
}

// HUD renders the score and the training statistics.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// DrawScore draws the round score in the top-right corner of the game screen.
// Coordinates are game-screen coordinates.
func (h *HUD) DrawScore(score int, screenWidth int32) {
	text := "Score: " + strconv.Itoa(score)
	width := rl.MeasureText(text, 50)
	rl.DrawText(text, screenWidth-10-width, 10, 50, rl.White)
}

// Draw renders the statistics panel and returns the Y below it.
func (h *HUD) Draw(x, y, width int32, data HUDData) int32 {
	r := h.renderer
	padding := r.Theme.Padding
	height := r.Theme.LineHeight*9 + padding*2 + 4

	r.DrawPanel(x, y, width, height)
	cx := x + padding
	cy := y + padding

	cy = r.DrawSectionHeader(cx, cy, fmt.Sprintf("Generation %d", data.Generation))
	cy = r.DrawRatioBar(cx, cy, "Alive", data.Alive, data.Population, width-padding*2)
	cy = r.DrawLabelValue(cx, cy, "Score", fmt.Sprintf("%d (best %d)", data.Score, data.BestScore))
	cy = r.DrawLabelValue(cx, cy, "Species", strconv.Itoa(data.Species))
	cy = r.DrawLabelValue(cx, cy, "Tick", humanize.Comma(int64(data.Tick)))
	cy = r.DrawLabelValue(cx, cy, "Lead fit", humanize.FormatFloat("#,###.##", data.LeadFitness))
	cy = r.DrawLabelValue(cx, cy, "Best fit", humanize.FormatFloat("#,###.##", data.BestFitness))
	cy = r.DrawLabelValue(cx, cy, "Speed", fmt.Sprintf("%dx | FPS: %d", data.Speed, data.FPS))

	status, color := "Running", rl.Green
	if data.Paused {
		status, color = "PAUSED", rl.Yellow
	}
	rl.DrawText(status, cx, cy, r.Theme.FontSize, color)

	return y + height
}

// DrawControls renders the key legend at the bottom of the window.
func (h *HUD) DrawControls(x, screenHeight int32, controls string) {
	rl.DrawText(controls, x, screenHeight-25, 12, rl.Gray)
}
