package flock

import (
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Wind is a global displacement that eases between random targets.
//
// The countdown decreases every tick. While it is >= 0 the wind is stable,
// in [-TransitionLength, 0) it moves linearly from its value at the start of
// the window to the target, and below -TransitionLength a new target and a new
// countdown are drawn.
type Wind struct {
	enabled bool
	params  WindParams
	rng     Random

	current geometry.Vector2D
	start   geometry.Vector2D // value when the running transition began
	next    geometry.Vector2D
	ticks   int
}

// NewWind returns a calm wind with its first target already scheduled.
// A disabled wind stays at zero and never draws from rng.
func NewWind(enabled bool, params WindParams, rng Random) *Wind {
	w := &Wind{enabled: enabled, params: params, rng: rng}
	if enabled {
		w.retarget()
	}
	return w
}

// Enabled reports whether the wind feature is on.
func (w *Wind) Enabled() bool { return w.enabled }

// Current is the displacement applied this tick.
func (w *Wind) Current() geometry.Vector2D { return w.current }

// Next is the pending target.
func (w *Wind) Next() geometry.Vector2D { return w.next }

// TicksUntilRetarget returns the signed countdown.
func (w *Wind) TicksUntilRetarget() int { return w.ticks }

// Transitioning reports whether the wind is easing toward its target.
func (w *Wind) Transitioning() bool {
	return w.enabled && w.ticks < 0 && w.ticks >= -w.params.TransitionLength
}

func (w *Wind) retarget() {
	m := w.params.MaxWind
	w.next = geometry.Vector2D{X: uniform(w.rng, -m, m), Y: uniform(w.rng, -m, m)}
	w.ticks = intBetween(w.rng, w.params.MinStableTicks, w.params.MaxStableTicks)
}

// Advance moves the wind one tick and reports whether a new target was drawn.
func (w *Wind) Advance() (retargeted bool) {
	if !w.enabled {
		w.current = geometry.Vector2D{}
		return false
	}

	w.ticks--
	switch {
	case w.ticks >= 0:
		// stable
	case w.ticks >= -w.params.TransitionLength:
		if w.ticks == -1 {
			w.start = w.current
		}
		f := float64(-w.ticks) / float64(w.params.TransitionLength)
		w.current = w.start.Lerp(w.next, f)
	default:
		w.retarget()
		return true
	}
	return false
}
