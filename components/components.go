// Package components defines ECS components for the scrolling world.
package components

// Position represents an entity's screen position.
type Position struct {
	X, Y float64
}

// Pipe holds the gap geometry of a pipe pair.
// Height is the y of the gap top; Top is where the flipped upper sprite is drawn
// and Bottom is where the lower sprite starts.
type Pipe struct {
	Height float64
	Top    float64
	Bottom float64
	Passed bool
	Seq    uint64 // Spawn order, breaks ties when ordering by X
}

// Gap returns the vertical size of the opening.
func (p Pipe) Gap() float64 {
	return p.Bottom - p.Height
}
