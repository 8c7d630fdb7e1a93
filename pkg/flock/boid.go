package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Boid represents a single entity in the flock.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// https://en.wikipedia.org/wiki/Boids
//
// Heading is derived from Vel after every update and only used for rendering.
type Boid struct {
	Pos     geometry.Vector2D
	Vel     geometry.Vector2D
	Heading float64 // degrees, see geometry.HeadingDegrees
}

// Environment is what every boid of a tick sees besides its neighbours.
// It is a read-only snapshot for the duration of the steering pass.
type Environment struct {
	Width, Height float64
	Wind          geometry.Vector2D
	HasPredator   bool
	Predator      geometry.Vector2D
}

// Steer returns the next state of flock[self] given the candidate neighbour
// indices (usually the 3x3 grid block around it). flock is only read.
func (p BoidParams) Steer(self int, flock []Boid, candidates []int, env Environment) Boid {
	me := flock[self]
	vel := me.Vel

	// Initialize accumulators
	var closeD, posSum, velSum geometry.Vector2D
	neighbors := 0

	for _, j := range candidates {
		if j == self {
			continue
		}
		other := flock[j]
		dist := me.Pos.DistanceTo(other.Pos)

		// 1. Separation, too close: push away
		if dist <= p.ProtectedRadius {
			closeD = closeD.Add(me.Pos.Sub(other.Pos))
		} else if dist <= p.VisualRadius {
			// Visible: contributes to the local averages
			posSum = posSum.Add(other.Pos)
			velSum = velSum.Add(other.Vel)
			neighbors++
		}
	}

	if neighbors > 0 {
		n := float64(neighbors)
		// 2. Cohesion: toward the local centroid
		vel = vel.Add(posSum.Mul(1 / n).Sub(me.Pos).Mul(p.CenteringFactor))
		// 3. Alignment: exponential smoothing toward the local mean velocity
		vel = vel.Add(velSum.Mul(1 / n).Sub(vel).Mul(p.MatchingFactor))
	}

	// 4. Apply Separation
	vel = vel.Add(closeD.Mul(p.TurnFactor))

	// 5. Predator avoidance
	if env.HasPredator && me.Pos.DistanceTo(env.Predator) <= p.VisualRadius {
		vel = vel.Add(me.Pos.Sub(env.Predator).Mul(p.EscapeFactor))
	}

	// 6. Screen Edges (Soft turn)
	vel = avoidEdges(me.Pos, vel, env.Width, env.Height, p.ScreenMargin, p.TurnFactor)

	// 7. Speed Limits
	vel = clampSpeed(vel, p.MinSpeed, p.MaxSpeed)

	// 8. Move, wind is a displacement on its own and escapes the clamp
	return Boid{
		Pos:     me.Pos.Add(vel).Add(env.Wind),
		Vel:     vel,
		Heading: geometry.HeadingDegrees(vel),
	}
}

// avoidEdges nudges vel by turn on each axis where pos lies inside the margin.
// Near and far margins of an axis are exclusive.
func avoidEdges(pos, vel geometry.Vector2D, width, height, margin, turn float64) geometry.Vector2D {
	if pos.X < margin {
		vel.X += turn
	} else if pos.X > width-margin {
		vel.X -= turn
	}
	if pos.Y < margin {
		vel.Y += turn
	} else if pos.Y > height-margin {
		vel.Y -= turn
	}
	return vel
}

// clampSpeed rescales vel so its length lies in [minSpeed, maxSpeed].
// A zero velocity has no direction to rescale along and is returned unchanged.
func clampSpeed(vel geometry.Vector2D, minSpeed, maxSpeed float64) geometry.Vector2D {
	speed := vel.Len()
	switch {
	case speed == 0 || math.IsNaN(speed):
		return geometry.Vector2D{}
	case speed > maxSpeed:
		return vel.Mul(maxSpeed / speed)
	case speed < minSpeed:
		return vel.Mul(minSpeed / speed)
	}
	return vel
}
