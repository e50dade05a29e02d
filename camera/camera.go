// Package camera fits the fixed-size game screen into a resizable window.
package camera

// Camera letterboxes the game screen (world) inside the window (viewport).
// The world keeps its aspect ratio and is centered; Zoom is the uniform scale.
type Camera struct {
	// Viewport dimensions (window size)
	ViewportW, ViewportH float32

	// World dimensions (game screen)
	WorldW, WorldH float32

	// Zoom level (1.0 = 1:1)
	Zoom float32

	// Screen position of the world's top-left corner
	OffsetX, OffsetY float32
}

// New creates a camera fitting a worldW×worldH screen into the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		WorldW: worldW,
		WorldH: worldH,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// Resize updates viewport dimensions and recomputes zoom and offsets.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH

	if c.WorldW <= 0 || c.WorldH <= 0 || viewportW <= 0 || viewportH <= 0 {
		c.Zoom = 1
		c.OffsetX, c.OffsetY = 0, 0
		return
	}

	c.Zoom = minf(viewportW/c.WorldW, viewportH/c.WorldH)
	c.OffsetX = (viewportW - c.WorldW*c.Zoom) / 2
	c.OffsetY = (viewportH - c.WorldH*c.Zoom) / 2
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	return (sx - c.OffsetX) / c.Zoom, (sy - c.OffsetY) / c.Zoom
}

// Contains reports whether a screen point lies over the game screen.
func (c *Camera) Contains(sx, sy float32) bool {
	wx, wy := c.ScreenToWorld(sx, sy)
	return wx >= 0 && wy >= 0 && wx < c.WorldW && wy < c.WorldH
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
