// Package renderer draws rounds in a raylib window and turns player input
// into training controls.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/camera"
	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/neural"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/ui"
)

// PanelWidth is the width of the side panel right of the game screen.
const PanelWidth = 320

// TrainingInfo is run-level state the window shows next to the round.
type TrainingInfo struct {
	Species     int
	BestFitness float64
	BestScore   int
}

// Window is the graphical presenter of a training run.
type Window struct {
	cfg     *config.Config
	cam     *camera.Camera
	sprites *Sprites

	hud      *ui.HUD
	controls *ui.Controls
	network  *ui.NetworkPanel
	palette  *neural.SpeciesPalette

	info TrainingInfo
}

// NewWindow opens the window and loads the sprites. Without assets the
// sprites are drawn as plain rectangles of the configured sizes.
func NewWindow(cfg *config.Config, useAssets bool) (*Window, error) {
	if useAssets {
		if err := sprites.CheckAssets(cfg); err != nil {
			return nil, fmt.Errorf("missing assets: %w", err)
		}
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width+PanelWidth), int32(cfg.Screen.Height), cfg.Screen.Title)
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	w := &Window{
		cfg:      cfg,
		cam:      camera.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), cfg.Derived.ScreenW32, cfg.Derived.ScreenH32),
		hud:      ui.NewHUD(),
		controls: ui.NewControls(cfg.Training.StepsPerUpdate),
		network:  ui.NewNetworkPanel(),
		palette:  neural.NewSpeciesPalette(32),
	}

	if useAssets {
		rl.InitAudioDevice()
		w.sprites = LoadSprites(cfg)
	} else {
		w.sprites = SolidSprites(cfg)
	}

	return w, nil
}

// SetTrainingInfo updates the run-level statistics shown in the panel.
func (w *Window) SetTrainingInfo(info TrainingInfo) {
	w.info = info
}

// ShouldQuit reports whether the window was closed.
func (w *Window) ShouldQuit() bool {
	return rl.WindowShouldClose()
}

// StepsPerFrame polls input and returns the ticks to simulate this frame.
func (w *Window) StepsPerFrame() int {
	w.controls.HandleInput()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if w.cam.Contains(mouse.X, mouse.Y) {
			w.controls.Paused = !w.controls.Paused
		}
	}
	return w.controls.StepsPerFrame()
}

// PointScored plays the point sound.
func (w *Window) PointScored() {
	w.sprites.PlayPoint()
}

// Draw renders one frame of the round.
func (w *Window) Draw(s game.Snapshot) {
	if rl.IsWindowResized() {
		w.cam.Resize(float32(rl.GetScreenWidth()-PanelWidth), float32(rl.GetScreenHeight()))
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	gameW := int32(w.cfg.Screen.Width)
	gameH := int32(w.cfg.Screen.Height)
	rl.BeginScissorMode(int32(w.cam.OffsetX), int32(w.cam.OffsetY),
		int32(float32(gameW)*w.cam.Zoom), int32(float32(gameH)*w.cam.Zoom))
	rl.BeginMode2D(rl.Camera2D{
		Offset: rl.Vector2{X: w.cam.OffsetX, Y: w.cam.OffsetY},
		Zoom:   w.cam.Zoom,
	})

	w.sprites.DrawBackground(gameW, gameH)
	for _, p := range s.Pipes {
		w.sprites.DrawPipe(p.X, p.Top, p.Bottom)
	}
	w.sprites.DrawBase(s.BaseX1, s.BaseX2, s.BaseY)
	for _, b := range s.Birds {
		w.sprites.DrawBird(b, w.birdTint(b))
	}
	w.hud.DrawScore(s.Score, gameW)

	rl.EndMode2D()
	rl.EndScissorMode()

	w.drawPanel(s)

	rl.EndDrawing()
}

func (w *Window) drawPanel(s game.Snapshot) {
	x := int32(rl.GetScreenWidth() - PanelWidth)
	screenH := int32(rl.GetScreenHeight())
	pad := int32(10)
	width := int32(PanelWidth) - pad*2

	y := w.hud.Draw(x+pad, pad, width, ui.HUDData{
		Generation:  s.Generation,
		Score:       s.Score,
		BestScore:   max(w.info.BestScore, s.Score),
		Alive:       s.Alive,
		Population:  s.Population,
		Species:     w.info.Species,
		Tick:        s.Tick,
		BestFitness: w.info.BestFitness,
		LeadFitness: s.LeadFitness,
		Speed:       w.controls.Speed,
		FPS:         rl.GetFPS(),
		Paused:      w.controls.Paused,
	})
	y = w.controls.Draw(x+pad, y+pad, width)

	if w.controls.ShowNetwork {
		var color rl.Color
		if len(s.Birds) > 0 {
			color = w.birdTint(s.Birds[0])
		}
		height := min(int32(260), screenH-y-pad*2-30)
		if height > 80 {
			w.network.Draw(x+pad, y+pad, width, height, s.Lead, color)
		}
	}

	w.hud.DrawControls(x+pad, screenH, ui.ControlsLegend)
}

func (w *Window) birdTint(b game.BirdView) rl.Color {
	c := w.palette.Color(b.SpeciesID)
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

// Close releases textures, audio and the window.
func (w *Window) Close() {
	w.sprites.Unload()
	if rl.IsAudioDeviceReady() {
		rl.CloseAudioDevice()
	}
	rl.CloseWindow()
}
