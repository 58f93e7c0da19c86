// Package runner implements the lane runner simulation: the player and enemy
// entities, procedural spawning with difficulty tiers, collision and score
// resolution, and the session state machine that ties them together.
//
// The package is host-agnostic. A host drives a Session through
// Update/Render (usually via loop.Scheduler), feeds lane changes from its
// input context, and receives snapshots and events through RenderSink and
// Listener.
package runner

import (
	"math"
	"sync/atomic"

	"github.com/vovakirdan/neon-runner/internal/config"
	"github.com/vovakirdan/neon-runner/internal/core"
)

// LaneCount is the number of lanes shared by player and enemies.
const LaneCount = 3

// laneFactors are lane centers as fractions of the world width.
var laneFactors = [LaneCount]float64{0.25, 0.5, 0.75}

// ClampLane restricts any lane index to [0, LaneCount-1].
func ClampLane(lane int) int {
	return core.Clamp(lane, 0, LaneCount-1)
}

// LaneX returns the horizontal center of a lane. Out-of-range lanes are
// clamped.
func LaneX(worldWidth float64, lane int) float64 {
	return worldWidth * laneFactors[ClampLane(lane)]
}

// LaneAt maps a horizontal position to the lane whose third of the width
// contains it.
func LaneAt(worldWidth, x float64) int {
	if worldWidth <= 0 {
		return 1
	}
	third := worldWidth / LaneCount
	return ClampLane(int(math.Floor(x / third)))
}

// Shape is the cosmetic variant of an enemy. It has no gameplay effect.
type Shape int

const (
	ShapeTriangle Shape = iota
	ShapeDiamond
	ShapeSquare
	ShapeHexagon
)

// Shapes lists every enemy shape.
var Shapes = []Shape{ShapeTriangle, ShapeDiamond, ShapeSquare, ShapeHexagon}

// String returns a human-readable name for the shape.
func (s Shape) String() string {
	switch s {
	case ShapeTriangle:
		return "Triangle"
	case ShapeDiamond:
		return "Diamond"
	case ShapeSquare:
		return "Square"
	case ShapeHexagon:
		return "Hexagon"
	default:
		return "Unknown"
	}
}

// Player is the avatar. Its lane may be written from the host's input
// goroutine while the simulation goroutine reads it, so the lane is atomic.
// Position fields are owned by the simulation goroutine.
type Player struct {
	lane atomic.Int32

	x       float64
	y       float64
	size    float64
	width   float64
	lerp    float64
	snap    float64
	initial int
}

// NewPlayer creates a player on the configured start lane, already at rest
// on that lane.
func NewPlayer(cfg config.RunnerConfig) *Player {
	p := &Player{
		y:       cfg.World.Height * cfg.Player.YFraction,
		size:    cfg.Player.Size,
		width:   cfg.World.Width,
		lerp:    cfg.Player.LerpSpeed,
		snap:    cfg.Player.SnapDistance,
		initial: ClampLane(cfg.Player.StartLane),
	}
	p.Reset()
	return p
}

// Reset puts the player back on its start lane with no motion pending.
func (p *Player) Reset() {
	p.lane.Store(int32(p.initial))
	p.x = LaneX(p.width, p.initial)
}

// Lane returns the target lane.
func (p *Player) Lane() int {
	return int(p.lane.Load())
}

// MoveToLane sets the target lane, clamped to the valid range, and returns
// the lane actually set.
func (p *Player) MoveToLane(lane int) int {
	clamped := ClampLane(lane)
	p.lane.Store(int32(clamped))
	return clamped
}

// Shift moves the target lane by dir (negative = left) and returns the new
// lane. Concurrent shifts never lose an update.
func (p *Player) Shift(dir int) int {
	for {
		cur := p.lane.Load()
		next := int32(ClampLane(int(cur) + dir))
		if p.lane.CompareAndSwap(cur, next) {
			return int(next)
		}
	}
}

// Update eases the horizontal position toward the target lane using
// frame-rate independent exponential smoothing.
func (p *Player) Update(dt float64) {
	target := LaneX(p.width, p.Lane())
	if dt > 0 {
		p.x = core.Lerp(p.x, target, 1-math.Exp(-p.lerp*dt))
	}
	if math.Abs(target-p.x) < p.snap {
		p.x = target
	}
}

// X returns the current horizontal position.
func (p *Player) X() float64 { return p.x }

// Y returns the fixed vertical position.
func (p *Player) Y() float64 { return p.y }

// Size returns the player's extent.
func (p *Player) Size() float64 { return p.size }

// Pos returns the player's center.
func (p *Player) Pos() core.Vec2 {
	return core.Vec2{X: p.x, Y: p.y}
}

// Enemy is a falling obstacle. X is fixed by its lane; Y only increases.
type Enemy struct {
	Lane  int
	X     float64
	Y     float64
	Speed float64 // units per second, fixed at spawn
	Size  float64
	Shape Shape
	Alive bool
}

// NewEnemy creates a live enemy centered on a lane at vertical position y.
func NewEnemy(worldWidth float64, lane int, y, speed, size float64, shape Shape) Enemy {
	lane = ClampLane(lane)
	return Enemy{
		Lane:  lane,
		X:     LaneX(worldWidth, lane),
		Y:     y,
		Speed: speed,
		Size:  size,
		Shape: shape,
		Alive: true,
	}
}

// Update advances a live enemy by its speed.
func (e *Enemy) Update(dt float64) {
	if !e.Alive || dt <= 0 {
		return
	}
	e.Y += e.Speed * dt
}

// IsOffScreen reports whether the enemy has fallen past the visible height
// by more than its own size.
func (e Enemy) IsOffScreen(height float64) bool {
	return e.Y > height+e.Size
}

// InDangerZone reports whether the enemy is past the given fraction of the
// visible height.
func (e Enemy) InDangerZone(height, fraction float64) bool {
	return e.Y > height*fraction
}

// Center returns the enemy's center.
func (e Enemy) Center() core.Vec2 {
	return core.Vec2{X: e.X, Y: e.Y}
}
