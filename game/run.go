package game

import (
	"context"
	"errors"

	"github.com/pthm-cable/flappy/telemetry"
)

// ErrQuit is returned when the player closes the window.
var ErrQuit = errors.New("quit requested")

// Presenter shows a running round. The raylib window implements it; a nil
// Presenter runs the round headless as fast as possible.
type Presenter interface {
	// ShouldQuit reports whether the player asked to close the game.
	ShouldQuit() bool
	// StepsPerFrame returns how many ticks to advance before the next frame.
	// Zero pauses the round while frames keep being drawn.
	StepsPerFrame() int
	// Draw renders one frame.
	Draw(s Snapshot)
	// PointScored is called once for every pipe passed.
	PointScored()
}

// PerfReporter receives rolling perf stats every window of ticks.
type PerfReporter func(tick int, stats telemetry.PerfStats)

// Run steps the round until no birds are left, the tick cap is reached, ctx
// is cancelled or the presenter asks to quit (ErrQuit).
func (r *Round) Run(ctx context.Context, p Presenter, generation int, report PerfReporter, every int) error {
	frames := 0
	sample := func() {
		if r.perf == nil {
			return
		}
		r.perf.EndTick()
		frames++
		if report != nil && every > 0 && frames%every == 0 {
			report(r.ticks, r.perf.Stats())
		}
	}

	for !r.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}

		if p == nil {
			if r.perf != nil {
				r.perf.StartTick()
			}
			r.Step()
			sample()
			continue
		}

		if p.ShouldQuit() {
			return ErrQuit
		}

		if r.perf != nil {
			r.perf.StartTick()
		}
		steps := p.StepsPerFrame()
		for i := 0; i < steps && !r.Done(); i++ {
			if ev := r.Step(); ev.Passed {
				p.PointScored()
			}
		}

		r.phase(telemetry.PhaseDraw)
		p.Draw(r.Snapshot(generation))
		if r.perf != nil {
			r.perf.RecordFrame()
		}
		sample()
	}
	return nil
}
