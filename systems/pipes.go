// Package systems provides the world systems of a round: bird kinematics,
// scrolling pipes and ground, and sprite-mask collision.
package systems

import (
	"math/rand"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/flappy/components"
	"github.com/pthm-cable/flappy/config"
)

// PipeParams holds pipe geometry and scrolling constants.
type PipeParams struct {
	Gap          float64
	Velocity     float64
	MinHeight    int // Inclusive
	MaxHeight    int // Exclusive
	Width        float64
	SpriteHeight float64
}

// PipeParamsFromConfig builds pipe parameters from the game config and sprite sizes.
func PipeParamsFromConfig(cfg *config.Config, width, spriteHeight int) PipeParams {
	return PipeParams{
		Gap:          cfg.Pipe.Gap,
		Velocity:     cfg.Pipe.Velocity,
		MinHeight:    cfg.Pipe.MinHeight,
		MaxHeight:    cfg.Pipe.MaxHeight,
		Width:        float64(width),
		SpriteHeight: float64(spriteHeight),
	}
}

// PipeView is a read-only copy of one pipe pair.
type PipeView struct {
	Entity ecs.Entity
	X      float64
	components.Pipe
}

// PipeField stores the live pipes as ECS entities.
type PipeField struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Position, components.Pipe]
	filter *ecs.Filter2[components.Position, components.Pipe]
	rng    *rand.Rand
	params PipeParams

	nextSeq uint64
	count   int
}

// NewPipeField creates an empty pipe field.
func NewPipeField(params PipeParams, rng *rand.Rand) *PipeField {
	world := ecs.NewWorld()
	return &PipeField{
		world:  world,
		mapper: ecs.NewMap2[components.Position, components.Pipe](world),
		filter: ecs.NewFilter2[components.Position, components.Pipe](world),
		rng:    rng,
		params: params,
	}
}

// Params returns the field's pipe parameters.
func (f *PipeField) Params() PipeParams {
	return f.params
}

// Spawn adds a pipe pair at x with a random gap height in [MinHeight, MaxHeight).
func (f *PipeField) Spawn(x float64) PipeView {
	height := float64(f.params.MinHeight + f.rng.Intn(f.params.MaxHeight-f.params.MinHeight))
	return f.SpawnAt(x, height)
}

// SpawnAt adds a pipe pair at x with the given gap height.
func (f *PipeField) SpawnAt(x, height float64) PipeView {
	pos := components.Position{X: x}
	pipe := components.Pipe{
		Height: height,
		Top:    height - f.params.SpriteHeight,
		Bottom: height + f.params.Gap,
		Seq:    f.nextSeq,
	}
	f.nextSeq++

	e := f.mapper.NewEntity(&pos, &pipe)
	f.count++

	return PipeView{Entity: e, X: pos.X, Pipe: pipe}
}

// Len returns the number of live pipes.
func (f *PipeField) Len() int {
	return f.count
}

// Pipes returns a snapshot of all pipes ordered left to right.
func (f *PipeField) Pipes() []PipeView {
	views := make([]PipeView, 0, f.count)

	query := f.filter.Query()
	for query.Next() {
		pos, pipe := query.Get()
		views = append(views, PipeView{Entity: query.Entity(), X: pos.X, Pipe: *pipe})
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].X != views[j].X {
			return views[i].X < views[j].X
		}
		return views[i].Seq < views[j].Seq
	})
	return views
}

// Move scrolls every pipe left by one tick.
func (f *PipeField) Move() {
	query := f.filter.Query()
	for query.Next() {
		pos, _ := query.Get()
		pos.X -= f.params.Velocity
	}
}

// MarkPassed flags a pipe as passed by the lead bird.
func (f *PipeField) MarkPassed(e ecs.Entity) {
	_, pipe := f.mapper.Get(e)
	pipe.Passed = true
}

// Offscreen reports whether a pipe has scrolled fully past the left edge.
func (f *PipeField) Offscreen(p PipeView) bool {
	return p.X+f.params.Width < 0
}

// Remove deletes the given pipes.
func (f *PipeField) Remove(entities ...ecs.Entity) {
	for _, e := range entities {
		if !f.world.Alive(e) {
			continue
		}
		f.world.RemoveEntity(e)
		f.count--
	}
}

// NextIndex picks the pipe a bird at birdX should steer for: the second pipe
// once the bird has flown past the right edge of the first.
func NextIndex(pipes []PipeView, birdX, pipeWidth float64) int {
	if len(pipes) > 1 && birdX > pipes[0].X+pipeWidth {
		return 1
	}
	return 0
}
