package systems

import "math"

// PipeMasks holds the collision masks of both halves of a pipe pair.
type PipeMasks struct {
	Top    *Mask
	Bottom *Mask
}

// PipeCollides reports whether a bird drawn with birdMask touches either half of the pipe.
// Offsets are measured from the bird's top-left corner; the bird's y is rounded
// half to even before comparing, x positions are whole pixels already.
func PipeCollides(b *Bird, birdMask *Mask, p PipeView, masks PipeMasks) bool {
	by := int(math.RoundToEven(b.Y))
	dx := int(math.Round(p.X - b.X))

	topOffset := int(math.Round(p.Top)) - by
	bottomOffset := int(math.Round(p.Bottom)) - by

	if birdMask.Overlap(masks.Bottom, dx, bottomOffset) {
		return true
	}
	return birdMask.Overlap(masks.Top, dx, topOffset)
}

// OutOfBounds reports whether a bird of the given sprite height has hit the
// ground or flown above the top of the screen.
func OutOfBounds(b *Bird, spriteHeight, groundY float64) bool {
	return b.Y+spriteHeight >= groundY || b.Y < 0
}
