package systems

import (
	"image"
	"image/color"
	"testing"
)

func TestRectMaskOverlap(t *testing.T) {
	a := NewRectMask(10, 10)
	b := NewRectMask(5, 5)

	tests := []struct {
		name   string
		dx, dy int
		want   bool
	}{
		{"inside", 2, 2, true},
		{"touching corner inside", 9, 9, true},
		{"just right", 10, 0, false},
		{"just below", 0, 10, false},
		{"just left", -5, 0, false},
		{"partial left", -4, 0, true},
		{"far away", 100, 100, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Overlap(b, tc.dx, tc.dy); got != tc.want {
				t.Errorf("Overlap(%d, %d) = %v, want %v", tc.dx, tc.dy, got, tc.want)
			}
		})
	}
}

func TestSparseMaskOverlap(t *testing.T) {
	a := NewMask(4, 4)
	a.Set(0, 0)
	b := NewMask(4, 4)
	b.Set(3, 3)

	// Bounding boxes overlap but solid pixels only meet at one offset
	if a.Overlap(b, 1, 1) {
		t.Error("expected no overlap between sparse masks")
	}
	if !a.Overlap(b, -3, -3) {
		t.Error("expected overlap when solid pixels coincide")
	}
}

func TestMaskFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{R: 255, A: 127}) // at threshold, not solid
	img.Set(2, 1, color.NRGBA{R: 255, A: 128})

	m := MaskFromImage(img)

	if m.Width() != 3 || m.Height() != 2 {
		t.Fatalf("expected 3x2 mask, got %dx%d", m.Width(), m.Height())
	}
	if !m.Get(0, 0) {
		t.Error("opaque pixel should be solid")
	}
	if m.Get(1, 0) {
		t.Error("pixel at threshold should be empty")
	}
	if !m.Get(2, 1) {
		t.Error("pixel above threshold should be solid")
	}
	if m.Count() != 2 {
		t.Errorf("expected 2 solid pixels, got %d", m.Count())
	}
}

func TestMaskFlipVertical(t *testing.T) {
	m := NewMask(2, 3)
	m.Set(0, 0)
	m.Set(1, 1)

	f := m.FlipVertical()

	if !f.Get(0, 2) || !f.Get(1, 1) {
		t.Error("flipped pixels not mirrored")
	}
	if f.Get(0, 0) {
		t.Error("original top pixel still set after flip")
	}
	if f.Count() != m.Count() {
		t.Errorf("flip changed solid count: %d -> %d", m.Count(), f.Count())
	}
}

func TestMaskGetOutOfRange(t *testing.T) {
	m := NewRectMask(2, 2)
	if m.Get(-1, 0) || m.Get(0, 2) {
		t.Error("out of range pixels should read empty")
	}
	m.Set(5, 5) // ignored
	if m.Count() != 4 {
		t.Errorf("out of range Set changed the mask: %d", m.Count())
	}
}
