package sprites

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/flappy/config"
)

// writePNG writes a w×h image whose left half is opaque and right half transparent.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 200, A: 255})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func testAssets(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Assets.Dir = t.TempDir()

	for _, rel := range cfg.Assets.BirdFrames {
		writePNG(t, Path(cfg, rel), 34, 24)
	}
	writePNG(t, Path(cfg, cfg.Assets.Pipe), 52, 320)
	writePNG(t, Path(cfg, cfg.Assets.Base), 336, 112)
	writePNG(t, Path(cfg, cfg.Assets.Background), 10, 10)

	sound := Path(cfg, cfg.Assets.PointSound)
	if err := os.MkdirAll(filepath.Dir(sound), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(sound, []byte("ID3"), 0644); err != nil {
		t.Fatalf("write sound: %v", err)
	}
	return cfg
}

func TestLoadSheetScalesAndMasks(t *testing.T) {
	cfg := testAssets(t)

	sheet, err := LoadSheet(cfg)
	if err != nil {
		t.Fatalf("LoadSheet failed: %v", err)
	}

	if sheet.BirdWidth != 68 || sheet.BirdHeight != 48 {
		t.Errorf("expected 68x48 bird, got %dx%d", sheet.BirdWidth, sheet.BirdHeight)
	}
	if sheet.PipeWidth != 104 || sheet.PipeHeight != 640 {
		t.Errorf("expected 104x640 pipe, got %dx%d", sheet.PipeWidth, sheet.PipeHeight)
	}
	if sheet.BaseWidth != 672 {
		t.Errorf("expected base width 672, got %d", sheet.BaseWidth)
	}
	if len(sheet.BirdMasks) != 3 {
		t.Fatalf("expected 3 bird masks, got %d", len(sheet.BirdMasks))
	}

	// Left half opaque: 34*48 solid pixels after scaling
	if got := sheet.BirdMask(0).Count(); got != 34*48 {
		t.Errorf("expected %d solid bird pixels, got %d", 34*48, got)
	}
	if sheet.Pipe.Top.Count() != sheet.Pipe.Bottom.Count() {
		t.Error("top and bottom pipe masks differ in solid pixels")
	}
}

func TestCheckAssets(t *testing.T) {
	cfg := testAssets(t)
	if err := CheckAssets(cfg); err != nil {
		t.Fatalf("CheckAssets failed: %v", err)
	}

	if err := os.Remove(Path(cfg, cfg.Assets.PointSound)); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := CheckAssets(cfg); err == nil {
		t.Error("expected error for missing sound")
	}
}

func TestLoadSheetMissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.Dir = t.TempDir()

	if _, err := LoadSheet(cfg); err == nil {
		t.Fatal("expected error when sprites are missing")
	}
}

func TestSolidSheet(t *testing.T) {
	cfg := config.Default()
	sheet := SolidSheet(cfg)

	if len(sheet.BirdMasks) != cfg.Derived.BirdFrames {
		t.Errorf("expected %d masks, got %d", cfg.Derived.BirdFrames, len(sheet.BirdMasks))
	}
	if sheet.BirdMask(0).Count() != 68*48 {
		t.Errorf("expected fully solid bird, got %d pixels", sheet.BirdMask(0).Count())
	}
	// Unknown frames fall back to the first mask
	if sheet.BirdMask(99) != sheet.BirdMasks[0] {
		t.Error("expected fallback to frame 0")
	}
}
