package flock

import (
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// PredatorState is the phase of the attack cycle.
type PredatorState int

const (
	// Circling orbits the anchor point at a reduced speed.
	Circling PredatorState = iota
	// Attacking pursues the centroid of every boid.
	Attacking
)

func (s PredatorState) String() string {
	switch s {
	case Circling:
		return "circling"
	case Attacking:
		return "attacking"
	}
	return "unknown"
}

// Predator cycles between circling an anchor and attacking the whole flock.
//
// A signed countdown drives the cycle: it decreases every tick, the predator
// circles while it is >= 0 and attacks while it lies in [-AttackDuration, 0).
// Below -AttackDuration a new countdown and a new anchor are drawn.
type Predator struct {
	Pos     geometry.Vector2D
	Vel     geometry.Vector2D
	Heading float64
	Anchor  geometry.Vector2D

	timer  int
	cycles int
	params PredatorParams
	width  float64
	height float64
	rng    Random
}

// NewPredator places a predator at a random position with a fresh cycle.
func NewPredator(params PredatorParams, width, height float64, rng Random) *Predator {
	p := &Predator{
		Pos:    geometry.Vector2D{X: uniform(rng, 0, width), Y: uniform(rng, 0, height)},
		Vel:    geometry.Vector2D{X: 1, Y: 1},
		params: params,
		width:  width,
		height: height,
		rng:    rng,
	}
	p.Heading = geometry.HeadingDegrees(p.Vel)
	p.newCycle()
	return p
}

// State derives the phase from the countdown.
func (p *Predator) State() PredatorState {
	if p.timer >= 0 {
		return Circling
	}
	return Attacking
}

// Timer returns the signed countdown.
func (p *Predator) Timer() int { return p.timer }

// Cycles returns how many attack cycles have completed.
func (p *Predator) Cycles() int { return p.cycles }

// SetTimer overrides the countdown, scenarios use it to start an attack on cue.
func (p *Predator) SetTimer(t int) { p.timer = t }

func (p *Predator) newCycle() {
	p.timer = intBetween(p.rng, p.params.MinTimer, p.params.MaxTimer)
	p.Anchor = geometry.Vector2D{X: uniform(p.rng, 0, p.width), Y: uniform(p.rng, 0, p.height)}
}

// advance moves the countdown one tick and reports whether the phase changed
// and whether a cycle completed.
func (p *Predator) advance() (changed, completed bool) {
	before := p.State()
	p.timer--
	if p.timer < -p.params.AttackDuration {
		p.cycles++
		p.newCycle()
		return before != p.State(), true
	}
	return before != p.State(), false
}

// Update advances the predator one tick. centroid is the mean position of every
// boid, ok is false when there are no boids to chase.
func (p *Predator) Update(centroid geometry.Vector2D, ok bool, wind geometry.Vector2D) (changed, completed bool) {
	changed, completed = p.advance()

	vel := p.Vel
	limit := p.params.MaxSpeed
	switch p.State() {
	case Circling:
		// the random multiplier gives the orbit its wobble
		wobble := uniform(p.rng, 0.5, 1.0)
		vel = vel.Add(p.Anchor.Sub(p.Pos).Mul(p.params.CirclingFactor * wobble))
		limit = p.params.CirclingMaxSpeed
	case Attacking:
		if ok {
			vel = vel.Add(centroid.Sub(p.Pos).Mul(p.params.CenteringFactor))
		}
	}

	vel = avoidEdges(p.Pos, vel, p.width, p.height, p.params.ScreenMargin, p.params.TurnFactor)
	vel = clampSpeed(vel, p.params.MinSpeed, limit)

	p.Vel = vel
	p.Pos = p.Pos.Add(vel).Add(wind)
	p.Heading = geometry.HeadingDegrees(vel)
	return changed, completed
}
