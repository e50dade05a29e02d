// Package sprites loads sprite images from disk and derives their collision
// masks and sizes. It does not depend on the renderer, so headless runs use
// the same masks as the window.
package sprites

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/systems"
)

// Sheet holds the collision masks and scaled sizes of every sprite a round needs.
type Sheet struct {
	BirdMasks []*systems.Mask
	Pipe      systems.PipeMasks

	BirdWidth  int
	BirdHeight int
	PipeWidth  int
	PipeHeight int
	BaseWidth  int
}

// BirdMask returns the mask for an animation frame.
func (s *Sheet) BirdMask(frame int) *systems.Mask {
	if frame < 0 || frame >= len(s.BirdMasks) {
		return s.BirdMasks[0]
	}
	return s.BirdMasks[frame]
}

// Path resolves an asset path relative to the configured asset directory.
func Path(cfg *config.Config, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(cfg.Assets.Dir, rel)
}

// CheckAssets verifies that every configured image and sound exists.
func CheckAssets(cfg *config.Config) error {
	paths := append([]string{}, cfg.Assets.BirdFrames...)
	paths = append(paths, cfg.Assets.Pipe, cfg.Assets.Base, cfg.Assets.Background, cfg.Assets.PointSound)

	for _, rel := range paths {
		p := Path(cfg, rel)
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("asset %s: %w", p, err)
		}
	}
	return nil
}

// LoadSheet decodes the sprite images, scales them and builds their masks.
func LoadSheet(cfg *config.Config) (*Sheet, error) {
	scale := cfg.Assets.SpriteScale
	sheet := &Sheet{}

	for _, rel := range cfg.Assets.BirdFrames {
		img, err := loadScaled(Path(cfg, rel), scale)
		if err != nil {
			return nil, err
		}
		sheet.BirdMasks = append(sheet.BirdMasks, systems.MaskFromImage(img))
		sheet.BirdWidth = img.Bounds().Dx()
		sheet.BirdHeight = img.Bounds().Dy()
	}

	pipe, err := loadScaled(Path(cfg, cfg.Assets.Pipe), scale)
	if err != nil {
		return nil, err
	}
	bottom := systems.MaskFromImage(pipe)
	sheet.Pipe = systems.PipeMasks{Top: bottom.FlipVertical(), Bottom: bottom}
	sheet.PipeWidth = pipe.Bounds().Dx()
	sheet.PipeHeight = pipe.Bounds().Dy()

	base, err := loadScaled(Path(cfg, cfg.Assets.Base), scale)
	if err != nil {
		return nil, err
	}
	sheet.BaseWidth = base.Bounds().Dx()

	return sheet, nil
}

// SolidSheet builds rectangular masks from the configured sprite sizes.
// Used when running without image files.
func SolidSheet(cfg *config.Config) *Sheet {
	a := cfg.Assets
	sheet := &Sheet{
		BirdWidth:  a.BirdWidth,
		BirdHeight: a.BirdHeight,
		PipeWidth:  a.PipeWidth,
		PipeHeight: a.PipeHeight,
		BaseWidth:  a.BaseWidth,
	}

	for range cfg.Derived.BirdFrames {
		sheet.BirdMasks = append(sheet.BirdMasks, systems.NewRectMask(a.BirdWidth, a.BirdHeight))
	}

	bottom := systems.NewRectMask(a.PipeWidth, a.PipeHeight)
	sheet.Pipe = systems.PipeMasks{Top: bottom.FlipVertical(), Bottom: bottom}

	return sheet
}

// loadScaled decodes a PNG and scales it by an integer factor with nearest-neighbour sampling.
func loadScaled(path string, scale int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sprite: %w", err)
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding sprite %s: %w", path, err)
	}
	if scale == 1 {
		return src, nil
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}
