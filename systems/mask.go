package systems

import "image"

// AlphaThreshold is the alpha value a pixel must exceed to be solid.
const AlphaThreshold = 127

// Mask is a per-pixel solidity map of a sprite.
type Mask struct {
	w, h int
	bits []bool
}

// NewMask creates an empty w×h mask.
func NewMask(w, h int) *Mask {
	return &Mask{w: w, h: h, bits: make([]bool, w*h)}
}

// NewRectMask creates a fully solid w×h mask.
func NewRectMask(w, h int) *Mask {
	m := NewMask(w, h)
	for i := range m.bits {
		m.bits[i] = true
	}
	return m
}

// MaskFromImage builds a mask from the alpha channel of img.
func MaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a>>8 > AlphaThreshold {
				m.bits[y*m.w+x] = true
			}
		}
	}
	return m
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.w }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.h }

// Get reports whether the pixel at (x, y) is solid. Out of range pixels are empty.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.bits[y*m.w+x]
}

// Set marks the pixel at (x, y) solid.
func (m *Mask) Set(x, y int) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	m.bits[y*m.w+x] = true
}

// Count returns the number of solid pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// FlipVertical returns a vertically mirrored copy, used for the upper pipe.
func (m *Mask) FlipVertical() *Mask {
	out := NewMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		copy(out.bits[(m.h-1-y)*m.w:(m.h-y)*m.w], m.bits[y*m.w:(y+1)*m.w])
	}
	return out
}

// Overlap reports whether other, placed at offset (dx, dy) from this mask's
// top-left corner, shares at least one solid pixel with it.
func (m *Mask) Overlap(other *Mask, dx, dy int) bool {
	r := image.Rect(0, 0, m.w, m.h).Intersect(image.Rect(dx, dy, dx+other.w, dy+other.h))
	if r.Empty() {
		return false
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.bits[y*m.w : (y+1)*m.w]
		oy := y - dy
		orow := other.bits[oy*other.w : (oy+1)*other.w]
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x] && orow[x-dx] {
				return true
			}
		}
	}
	return false
}
