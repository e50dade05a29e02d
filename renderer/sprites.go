package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/game"
	"github.com/pthm-cable/flappy/sprites"
)

// Sprites draws the game objects, from textures when loaded and as solid
// rectangles of the configured sizes otherwise.
type Sprites struct {
	scale float32

	birds      []rl.Texture2D
	pipe       rl.Texture2D
	base       rl.Texture2D
	background rl.Texture2D
	point      rl.Sound
	textured   bool
	sound      bool

	birdW, birdH float32
	pipeW, pipeH float32
	baseW, baseH float32
}

// LoadSprites loads every texture and the point sound. Requires an open
// window and audio device.
func LoadSprites(cfg *config.Config) *Sprites {
	s := SolidSprites(cfg)
	s.textured = true

	for _, rel := range cfg.Assets.BirdFrames {
		s.birds = append(s.birds, loadTexture(sprites.Path(cfg, rel)))
	}
	s.pipe = loadTexture(sprites.Path(cfg, cfg.Assets.Pipe))
	s.base = loadTexture(sprites.Path(cfg, cfg.Assets.Base))
	s.background = loadTexture(sprites.Path(cfg, cfg.Assets.Background))

	s.birdW = float32(s.birds[0].Width) * s.scale
	s.birdH = float32(s.birds[0].Height) * s.scale
	s.pipeW = float32(s.pipe.Width) * s.scale
	s.pipeH = float32(s.pipe.Height) * s.scale
	s.baseW = float32(s.base.Width) * s.scale
	s.baseH = float32(s.base.Height) * s.scale

	if rl.IsAudioDeviceReady() {
		s.point = rl.LoadSound(sprites.Path(cfg, cfg.Assets.PointSound))
		s.sound = true
	}
	return s
}

// SolidSprites draws flat shapes sized like the scaled sprites.
func SolidSprites(cfg *config.Config) *Sprites {
	a := cfg.Assets
	return &Sprites{
		scale: float32(a.SpriteScale),
		birdW: float32(a.BirdWidth),
		birdH: float32(a.BirdHeight),
		pipeW: float32(a.PipeWidth),
		pipeH: float32(a.PipeHeight),
		baseW: float32(a.BaseWidth),
		baseH: float32(cfg.Screen.Height) - float32(cfg.Base.Y),
	}
}

func loadTexture(path string) rl.Texture2D {
	tex := rl.LoadTexture(path)
	rl.SetTextureFilter(tex, rl.FilterPoint)
	return tex
}

func fullSource(tex rl.Texture2D) rl.Rectangle {
	return rl.Rectangle{Width: float32(tex.Width), Height: float32(tex.Height)}
}

// DrawBackground fills the game screen.
func (s *Sprites) DrawBackground(width, height int32) {
	if !s.textured {
		rl.DrawRectangle(0, 0, width, height, rl.Color{R: 78, G: 192, B: 202, A: 255})
		return
	}
	dst := rl.Rectangle{Width: float32(width), Height: float32(height)}
	rl.DrawTexturePro(s.background, fullSource(s.background), dst, rl.Vector2{}, 0, rl.White)
}

// DrawPipe draws a pipe pair: the upper sprite flipped at top, the lower one at bottom.
func (s *Sprites) DrawPipe(x, top, bottom float64) {
	upper := rl.Rectangle{X: float32(x), Y: float32(top), Width: s.pipeW, Height: s.pipeH}
	lower := rl.Rectangle{X: float32(x), Y: float32(bottom), Width: s.pipeW, Height: s.pipeH}

	if !s.textured {
		green := rl.Color{R: 84, G: 168, B: 52, A: 255}
		rl.DrawRectangleRec(upper, green)
		rl.DrawRectangleRec(lower, green)
		return
	}

	flipped := fullSource(s.pipe)
	flipped.Height = -flipped.Height
	rl.DrawTexturePro(s.pipe, flipped, upper, rl.Vector2{}, 0, rl.White)
	rl.DrawTexturePro(s.pipe, fullSource(s.pipe), lower, rl.Vector2{}, 0, rl.White)
}

// DrawBase draws the two ground tiles.
func (s *Sprites) DrawBase(x1, x2, y float64) {
	for _, x := range []float64{x1, x2} {
		dst := rl.Rectangle{X: float32(x), Y: float32(y), Width: s.baseW, Height: s.baseH}
		if !s.textured {
			rl.DrawRectangleRec(dst, rl.Color{R: 222, G: 216, B: 149, A: 255})
			continue
		}
		rl.DrawTexturePro(s.base, fullSource(s.base), dst, rl.Vector2{}, 0, rl.White)
	}
}

// DrawBird draws a bird rotated around its centre by its tilt.
func (s *Sprites) DrawBird(b game.BirdView, tint rl.Color) {
	origin := rl.Vector2{X: s.birdW / 2, Y: s.birdH / 2}
	dst := rl.Rectangle{
		X:      float32(b.X) + origin.X,
		Y:      float32(b.Y) + origin.Y,
		Width:  s.birdW,
		Height: s.birdH,
	}
	// Tilt is counter-clockwise degrees, raylib rotates clockwise
	rotation := float32(-b.Tilt)

	if !s.textured {
		rl.DrawRectanglePro(dst, origin, rotation, tint)
		return
	}

	frame := b.Frame
	if frame < 0 || frame >= len(s.birds) {
		frame = 0
	}
	tex := s.birds[frame]
	rl.DrawTexturePro(tex, fullSource(tex), dst, origin, rotation, tint)
}

// PlayPoint plays the point sound if one is loaded.
func (s *Sprites) PlayPoint() {
	if s.sound {
		rl.PlaySound(s.point)
	}
}

// Unload releases textures and sounds.
func (s *Sprites) Unload() {
	if !s.textured {
		return
	}
	for _, tex := range s.birds {
		rl.UnloadTexture(tex)
	}
	rl.UnloadTexture(s.pipe)
	rl.UnloadTexture(s.base)
	rl.UnloadTexture(s.background)
	if s.sound {
		rl.UnloadSound(s.point)
		s.sound = false
	}
	s.textured = false
}
