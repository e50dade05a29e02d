// Package game runs rounds: one generation of birds flying through the pipes
// until none are left. It has no graphics dependency; a Presenter draws frames
// when a window is open.
package game

import (
	"math"
	"math/rand"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"github.com/yaricom/goNEAT/v4/neat/genetics"

	"github.com/pthm-cable/flappy/config"
	"github.com/pthm-cable/flappy/sprites"
	"github.com/pthm-cable/flappy/systems"
	"github.com/pthm-cable/flappy/telemetry"
)

// Brain decides whether a bird jumps. Inputs are the bird's y and its
// vertical distances to the top and bottom of the next gap.
type Brain interface {
	Activate(y, distTop, distBottom float64) (float64, error)
}

// Agent pairs an organism with the brain built from its genome.
type Agent struct {
	Organism *genetics.Organism
	Brain    Brain
}

// StepEvents reports what happened during one tick.
type StepEvents struct {
	Passed      bool // Lead pipe passed, score incremented
	Collisions  int  // Birds removed by pipe collision
	OutOfBounds int  // Birds removed by ground or ceiling
	Done        bool // No birds left, or the tick cap was hit
}

// Round is one generation's game. Birds, brains and organisms are kept in
// index-aligned slices; a bird leaving the round is removed from all three.
type Round struct {
	cfg   *config.Config
	sheet *sprites.Sheet

	birds     []*systems.Bird
	brains    []Brain
	organisms []*genetics.Organism

	pipes *systems.PipeField
	base  *systems.Base

	population  int
	score       int
	ticks       int
	thinkErrors int
	capped      bool

	perf *telemetry.PerfCollector
}

// NewRound places one bird per agent at the start position, resets every
// organism's fitness to zero and spawns the first pipe.
func NewRound(cfg *config.Config, sheet *sprites.Sheet, rng *rand.Rand, agents []Agent) *Round {
	birdParams := systems.BirdParamsFromConfig(cfg)
	pipeParams := systems.PipeParamsFromConfig(cfg, sheet.PipeWidth, sheet.PipeHeight)

	r := &Round{
		cfg:        cfg,
		sheet:      sheet,
		birds:      make([]*systems.Bird, 0, len(agents)),
		brains:     make([]Brain, 0, len(agents)),
		organisms:  make([]*genetics.Organism, 0, len(agents)),
		pipes:      systems.NewPipeField(pipeParams, rng),
		base:       systems.NewBase(cfg.Base.Y, float64(sheet.BaseWidth), cfg.Base.Velocity),
		population: len(agents),
	}

	for _, a := range agents {
		a.Organism.Fitness = 0
		r.birds = append(r.birds, systems.NewBird(cfg.Bird.StartX, cfg.Bird.StartY, birdParams))
		r.brains = append(r.brains, a.Brain)
		r.organisms = append(r.organisms, a.Organism)
	}

	r.pipes.Spawn(cfg.Pipe.InitialX)
	return r
}

// SetPerf enables per-phase timing of Step.
func (r *Round) SetPerf(perf *telemetry.PerfCollector) {
	r.perf = perf
}

func (r *Round) phase(name telemetry.Phase) {
	if r.perf != nil {
		r.perf.StartPhase(name)
	}
}

// Alive returns the number of birds still flying.
func (r *Round) Alive() int { return len(r.birds) }

// Score returns the number of pipes passed.
func (r *Round) Score() int { return r.score }

// Ticks returns the number of ticks stepped.
func (r *Round) Ticks() int { return r.ticks }

// ThinkErrors returns how many network activations failed this round.
func (r *Round) ThinkErrors() int { return r.thinkErrors }

// Capped reports whether the round was cut short by the tick cap.
func (r *Round) Capped() bool { return r.capped }

// Done reports whether the round is over.
func (r *Round) Done() bool {
	return len(r.birds) == 0 || r.capped
}

// Birds returns the live birds, lead bird first.
func (r *Round) Birds() []*systems.Bird { return r.birds }

// Organisms returns the organisms of the live birds, aligned with Birds.
func (r *Round) Organisms() []*genetics.Organism { return r.organisms }

// Pipes returns the live pipes ordered left to right.
func (r *Round) Pipes() []systems.PipeView { return r.pipes.Pipes() }

// Base returns the ground strip.
func (r *Round) Base() *systems.Base { return r.base }

// Step advances the round by one tick.
func (r *Round) Step() StepEvents {
	var ev StepEvents
	if r.Done() {
		ev.Done = true
		return ev
	}

	fit := r.cfg.Fitness

	// Steer for the second pipe once the lead bird has cleared the first
	pipes := r.pipes.Pipes()
	if len(pipes) == 0 {
		r.pipes.Spawn(r.cfg.Pipe.SpawnX)
		pipes = r.pipes.Pipes()
	}
	next := pipes[systems.NextIndex(pipes, r.birds[0].X, r.pipes.Params().Width)]

	r.phase(telemetry.PhaseThink)
	for i, b := range r.birds {
		b.Move()
		r.organisms[i].Fitness += fit.TickReward

		out, err := r.brains[i].Activate(b.Y, math.Abs(b.Y-next.Height), math.Abs(b.Y-next.Bottom))
		if err != nil {
			r.thinkErrors++
			continue
		}
		if out > fit.JumpThreshold {
			b.Jump()
		}
	}

	r.phase(telemetry.PhasePipes)
	addPipe := false
	var offscreen []ecs.Entity
	for _, p := range pipes {
		for i := 0; i < len(r.birds); {
			b := r.birds[i]
			if systems.PipeCollides(b, r.sheet.BirdMask(b.Frame()), p, r.sheet.Pipe) {
				r.organisms[i].Fitness -= fit.CollisionPenalty
				r.remove(i)
				ev.Collisions++
				continue
			}
			i++
		}

		if !p.Passed && len(r.birds) > 0 && p.X < r.birds[0].X {
			r.pipes.MarkPassed(p.Entity)
			addPipe = true
		}
		if r.pipes.Offscreen(p) {
			offscreen = append(offscreen, p.Entity)
		}
	}
	r.pipes.Move()

	r.phase(telemetry.PhaseScoring)
	if addPipe {
		r.score++
		for _, org := range r.organisms {
			org.Fitness += fit.PassBonus
		}
		r.pipes.Spawn(r.cfg.Pipe.SpawnX)
		ev.Passed = true
	}
	r.pipes.Remove(offscreen...)

	r.phase(telemetry.PhaseBounds)
	birdHeight := float64(r.sheet.BirdHeight)
	for i := 0; i < len(r.birds); {
		if systems.OutOfBounds(r.birds[i], birdHeight, r.base.Y) {
			r.remove(i)
			ev.OutOfBounds++
			continue
		}
		i++
	}

	r.phase(telemetry.PhaseScroll)
	r.base.Move()
	for _, b := range r.birds {
		b.Animate()
	}
	r.ticks++

	if limit := r.cfg.Training.MaxRoundTicks; limit > 0 && r.ticks >= limit {
		r.capped = true
	}
	ev.Done = r.Done()
	return ev
}

// remove drops the i-th bird with its brain and organism.
func (r *Round) remove(i int) {
	r.birds = slices.Delete(r.birds, i, i+1)
	r.brains = slices.Delete(r.brains, i, i+1)
	r.organisms = slices.Delete(r.organisms, i, i+1)
}
