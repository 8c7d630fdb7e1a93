package flock

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func TestWind_Disabled(t *testing.T) {
	w := NewWind(false, DefaultConfig().Wind, NewRandom(1))
	for i := 0; i < 2000; i++ {
		if w.Advance() {
			t.Fatal("a disabled wind must never retarget")
		}
		if !w.Current().IsZero() {
			t.Fatalf("tick %d: Current() = %v; want zero", i, w.Current())
		}
	}
	if w.Enabled() || w.Transitioning() {
		t.Error("disabled wind reports itself active")
	}
}

func TestWind_StaysWithinBounds(t *testing.T) {
	params := WindParams{MaxWind: 0.5, TransitionLength: 20, MinStableTicks: 1, MaxStableTicks: 30}
	w := NewWind(true, params, NewRandom(21))

	retargets := 0
	for i := 0; i < 5000; i++ {
		if w.Advance() {
			retargets++
		}
		c := w.Current()
		if math.Abs(c.X) > params.MaxWind+geometry.Epsilon || math.Abs(c.Y) > params.MaxWind+geometry.Epsilon {
			t.Fatalf("tick %d: Current() = %v exceeds %v on an axis", i, c, params.MaxWind)
		}
	}
	if retargets == 0 {
		t.Error("the wind never picked a new target in 5000 ticks")
	}
}

func TestWind_Timeline(t *testing.T) {
	params := WindParams{MaxWind: 1, TransitionLength: 10, MinStableTicks: 5, MaxStableTicks: 5}
	w := NewWind(true, params, NewRandom(8))
	target := w.Next()
	if target.IsZero() {
		t.Fatal("first target is zero, pick another seed")
	}

	// stable for five ticks
	for tick := 1; tick <= 5; tick++ {
		w.Advance()
		if !w.Current().IsZero() || w.Transitioning() {
			t.Fatalf("tick %d: Current() = %v; want a calm stable wind", tick, w.Current())
		}
	}

	w.Advance()
	if want := target.Mul(0.1); !w.Current().Eq(want) || !w.Transitioning() {
		t.Errorf("tick 6: Current() = %v; want %v", w.Current(), want)
	}

	for tick := 7; tick <= 15; tick++ {
		w.Advance()
	}
	if !w.Current().Eq(target) {
		t.Errorf("tick 15: Current() = %v; want the target %v", w.Current(), target)
	}

	if !w.Advance() {
		t.Fatal("tick 16: want a retarget")
	}
	if !w.Current().Eq(target) {
		t.Errorf("retargeting must not move the wind, got %v", w.Current())
	}
	if w.TicksUntilRetarget() != 5 {
		t.Errorf("TicksUntilRetarget() = %d; want 5", w.TicksUntilRetarget())
	}

	// the next transition starts from the old target
	next := w.Next()
	for tick := 17; tick <= 22; tick++ {
		w.Advance()
	}
	if want := target.Lerp(next, 0.1); !w.Current().Eq(want) {
		t.Errorf("tick 22: Current() = %v; want %v", w.Current(), want)
	}
}
