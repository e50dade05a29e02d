package systems

import "github.com/pthm-cable/flappy/config"

// BirdParams holds the kinematic and animation constants shared by all birds.
type BirdParams struct {
	JumpVelocity         float64
	Gravity              float64
	TerminalDisplacement float64
	JumpBoost            float64
	MaxRotation          float64
	RotationVelocity     float64
	MinTilt              float64
	TiltHoldBand         float64
	NoseDiveTilt         float64
	AnimationTime        int
	Frames               int
}

// BirdParamsFromConfig builds bird parameters from the game config.
func BirdParamsFromConfig(cfg *config.Config) *BirdParams {
	return &BirdParams{
		JumpVelocity:         cfg.Bird.JumpVelocity,
		Gravity:              cfg.Bird.Gravity,
		TerminalDisplacement: cfg.Bird.TerminalDisplacement,
		JumpBoost:            cfg.Bird.JumpBoost,
		MaxRotation:          cfg.Bird.MaxRotation,
		RotationVelocity:     cfg.Bird.RotationVelocity,
		MinTilt:              cfg.Bird.MinTilt,
		TiltHoldBand:         cfg.Bird.TiltHoldBand,
		NoseDiveTilt:         cfg.Bird.NoseDiveTilt,
		AnimationTime:        cfg.Bird.AnimationTime,
		Frames:               cfg.Derived.BirdFrames,
	}
}

// Bird is a single flapping player.
// Y grows downwards, so a negative displacement moves the bird up.
type Bird struct {
	X, Y      float64
	Vel       float64
	Tilt      float64 // Degrees, counter-clockwise positive
	Height    float64 // Y at the last jump, start of the current arc
	TickCount int     // Ticks since the last jump
	ImgCount  int     // Animation counter

	frame  int
	params *BirdParams
}

// NewBird creates a bird at rest.
func NewBird(x, y float64, params *BirdParams) *Bird {
	return &Bird{
		X:      x,
		Y:      y,
		Height: y,
		params: params,
	}
}

// Jump starts a new arc with the upward jump velocity.
func (b *Bird) Jump() {
	b.Vel = b.params.JumpVelocity
	b.TickCount = 0
	b.Height = b.Y
}

// Move advances the bird along its arc by one tick and returns the applied displacement.
// The arc is s = v*t + g*t^2, capped at the terminal displacement on the way down.
func (b *Bird) Move() float64 {
	p := b.params
	b.TickCount++
	t := float64(b.TickCount)

	d := b.Vel*t + p.Gravity*t*t
	if d >= p.TerminalDisplacement {
		d = p.TerminalDisplacement
	}
	if d < 0 {
		d -= p.JumpBoost
	}

	b.Y += d

	if d < 0 || b.Y < b.Height+p.TiltHoldBand {
		if b.Tilt < p.MaxRotation {
			b.Tilt = p.MaxRotation
		}
	} else if b.Tilt > p.MinTilt {
		b.Tilt -= p.RotationVelocity
	}

	return d
}

// Animate advances the wing-flap cycle by one tick.
// Frames play forward then backward (0,1,2,1,0...) and a nose-diving bird holds
// its wings level.
func (b *Bird) Animate() {
	p := b.params
	n := p.Frames
	if n <= 1 {
		b.frame = 0
		return
	}

	b.ImgCount++
	cycle := 2 * (n - 1) * p.AnimationTime
	if b.ImgCount >= cycle {
		b.ImgCount = 0
	}

	step := b.ImgCount / p.AnimationTime
	if step < n {
		b.frame = step
	} else {
		b.frame = 2*(n-1) - step
	}

	if b.Tilt <= p.NoseDiveTilt {
		b.frame = 1
		b.ImgCount = 2 * p.AnimationTime
	}
}

// Frame returns the current animation frame index.
func (b *Bird) Frame() int {
	return b.frame
}
