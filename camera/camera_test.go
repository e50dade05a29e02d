package camera

import (
	"math"
	"testing"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNewExactFit(t *testing.T) {
	cam := New(600, 900, 600, 900)

	if cam.Zoom != 1 || cam.OffsetX != 0 || cam.OffsetY != 0 {
		t.Errorf("expected identity transform, got zoom=%v offset=(%v, %v)", cam.Zoom, cam.OffsetX, cam.OffsetY)
	}
}

func TestLetterbox(t *testing.T) {
	tests := []struct {
		name             string
		vw, vh           float32
		zoom, offX, offY float32
	}{
		{"wide window", 1200, 900, 1, 300, 0},
		{"tall window", 600, 1200, 1, 0, 150},
		{"half size", 300, 450, 0.5, 0, 0},
		{"double wide", 2000, 1800, 2, 400, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(tt.vw, tt.vh, 600, 900)
			if !approx(cam.Zoom, tt.zoom) || !approx(cam.OffsetX, tt.offX) || !approx(cam.OffsetY, tt.offY) {
				t.Errorf("got zoom=%v offset=(%v, %v), want zoom=%v offset=(%v, %v)",
					cam.Zoom, cam.OffsetX, cam.OffsetY, tt.zoom, tt.offX, tt.offY)
			}
		})
	}
}

func TestScreenToWorld(t *testing.T) {
	// 600x900 world in a 1200x900 window: zoom 1, 300px bars left and right
	cam := New(1200, 900, 600, 900)

	tests := []struct {
		sx, sy, wx, wy float32
	}{
		{300, 0, 0, 0},
		{600, 450, 300, 450},
		{899, 899, 599, 899},
		{0, 100, -300, 100},
	}
	for _, tt := range tests {
		wx, wy := cam.ScreenToWorld(tt.sx, tt.sy)
		if !approx(wx, tt.wx) || !approx(wy, tt.wy) {
			t.Errorf("ScreenToWorld(%v, %v) = (%v, %v), want (%v, %v)", tt.sx, tt.sy, wx, wy, tt.wx, tt.wy)
		}
	}

	// Zoomed: 1280x720 window fits the world at 0.8
	cam = New(1280, 720, 600, 900)
	wx, wy := cam.ScreenToWorld(cam.OffsetX+240, cam.OffsetY+360)
	if !approx(wx, 300) || !approx(wy, 450) {
		t.Errorf("zoomed ScreenToWorld = (%v, %v), want (300, 450)", wx, wy)
	}
}

func TestContains(t *testing.T) {
	cam := New(1200, 900, 600, 900)

	if cam.Contains(100, 100) {
		t.Error("left letterbox bar should not be over the game screen")
	}
	if !cam.Contains(600, 450) {
		t.Error("window center should be over the game screen")
	}
}

func TestResize(t *testing.T) {
	cam := New(600, 900, 600, 900)
	cam.Resize(1200, 900)

	if !approx(cam.OffsetX, 300) {
		t.Errorf("expected offset 300 after resize, got %v", cam.OffsetX)
	}
	if !approx(cam.Zoom, 1) {
		t.Errorf("expected zoom 1 after resize, got %v", cam.Zoom)
	}
}

func TestDegenerateViewport(t *testing.T) {
	cam := New(0, 0, 600, 900)

	if cam.Zoom != 1 {
		t.Errorf("expected fallback zoom 1, got %v", cam.Zoom)
	}
}
