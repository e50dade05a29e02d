package systems

// Base is the scrolling ground. Two copies of the strip are laid end to end and
// whichever scrolls off the left edge is moved behind the other.
type Base struct {
	Y      float64
	X1, X2 float64
	Width  float64
	vel    float64
}

// NewBase creates a ground strip at height y.
func NewBase(y, width, vel float64) *Base {
	return &Base{
		Y:     y,
		X1:    0,
		X2:    width,
		Width: width,
		vel:   vel,
	}
}

// Move scrolls the strip left by one tick.
func (b *Base) Move() {
	b.X1 -= b.vel
	b.X2 -= b.vel

	if b.X1+b.Width < 0 {
		b.X1 = b.X2 + b.Width
	}
	if b.X2+b.Width < 0 {
		b.X2 = b.X1 + b.Width
	}
}
