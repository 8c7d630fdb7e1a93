package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// BodyState is the render view of a boid or of the predator.
type BodyState struct {
	Pos     geometry.Vector2D
	Vel     geometry.Vector2D
	Heading float64
}

// FlockFrame is the render view of one flock.
type FlockFrame struct {
	Color int
	Boids []BodyState
}

// PredatorFrame is the render view of the predator.
type PredatorFrame struct {
	BodyState
	State  PredatorState
	Anchor geometry.Vector2D
	Timer  int
}

// Frame is a copy of everything a renderer needs for one tick.
type Frame struct {
	Tick        uint64
	Width       float64
	Height      float64
	CellSize    float64
	Flocks      []FlockFrame
	HasPredator bool
	Predator    PredatorFrame
	Wind        geometry.Vector2D
	WindNext    geometry.Vector2D
}

// Frame fills dst (allocating it when nil) with the current state and returns it.
// It only reads the simulation; dst slices are reused across calls.
func (s *Simulation) Frame(dst *Frame) *Frame {
	if dst == nil {
		dst = &Frame{}
	}
	dst.Tick = s.tick
	dst.Width = s.cfg.WorldWidth
	dst.Height = s.cfg.WorldHeight
	dst.CellSize = s.cfg.CellSize
	dst.Wind = s.wind.Current()
	dst.WindNext = s.wind.Next()

	if cap(dst.Flocks) < len(s.flocks) {
		dst.Flocks = make([]FlockFrame, len(s.flocks))
	}
	dst.Flocks = dst.Flocks[:len(s.flocks)]
	for fi, f := range s.flocks {
		ff := &dst.Flocks[fi]
		ff.Color = f.Color
		ff.Boids = ff.Boids[:0]
		for _, b := range f.boids {
			ff.Boids = append(ff.Boids, BodyState{Pos: b.Pos, Vel: b.Vel, Heading: b.Heading})
		}
	}

	dst.HasPredator = s.predator != nil
	if p := s.predator; p != nil {
		dst.Predator = PredatorFrame{
			BodyState: BodyState{Pos: p.Pos, Vel: p.Vel, Heading: p.Heading},
			State:     p.State(),
			Anchor:    p.Anchor,
			Timer:     p.Timer(),
		}
	} else {
		dst.Predator = PredatorFrame{}
	}
	return dst
}

// BodyOutline returns the triangle drawn for a body: the nose lies ahead
// along the heading, the two other corners lie side px at ±90°.
func BodyOutline(pos geometry.Vector2D, heading, ahead, side float64) [3]geometry.Vector2D {
	corner := func(deg, length float64) geometry.Vector2D {
		r := geometry.Radians(deg)
		return geometry.Vector2D{X: pos.X + math.Sin(r)*length, Y: pos.Y + math.Cos(r)*length}
	}
	return [3]geometry.Vector2D{
		corner(heading, ahead),
		corner(heading+90, side),
		corner(heading-90, side),
	}
}
