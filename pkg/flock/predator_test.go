package flock

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

func testPredatorParams() PredatorParams {
	return PredatorParams{
		MinTimer:         20,
		MaxTimer:         40,
		AttackDuration:   5,
		CirclingFactor:   0.01,
		CirclingMaxSpeed: 2,
		CenteringFactor:  0.01,
		MinSpeed:         1,
		MaxSpeed:         6,
		TurnFactor:       0.15,
		ScreenMargin:     50,
	}
}

func TestPredatorState_String(t *testing.T) {
	if Circling.String() != "circling" || Attacking.String() != "attacking" || PredatorState(9).String() != "unknown" {
		t.Error("unexpected PredatorState names")
	}
}

func TestNewPredator_DrawsCycle(t *testing.T) {
	params := testPredatorParams()
	p := NewPredator(params, 800, 600, NewRandom(3))

	if p.Timer() < params.MinTimer || p.Timer() > params.MaxTimer {
		t.Errorf("Timer() = %d; want in [%d, %d]", p.Timer(), params.MinTimer, params.MaxTimer)
	}
	if p.State() != Circling {
		t.Errorf("State() = %s; want circling", p.State())
	}
	if p.Anchor.X < 0 || p.Anchor.X >= 800 || p.Anchor.Y < 0 || p.Anchor.Y >= 600 {
		t.Errorf("Anchor %v lies outside the screen", p.Anchor)
	}
}

// Starting from a known countdown T, the predator attacks after T+1 ticks and
// completes its cycle after T+AttackDuration+1 ticks.
func TestPredator_AttackCycle(t *testing.T) {
	const T = 10
	params := testPredatorParams()
	p := NewPredator(params, 800, 600, NewRandom(5))
	p.SetTimer(T)
	anchor := p.Anchor
	centroid := geometry.Vector2D{X: 400, Y: 300}

	for tick := 1; tick <= T; tick++ {
		p.Update(centroid, true, geometry.Vector2D{})
		if p.State() != Circling {
			t.Fatalf("tick %d: State() = %s; want circling", tick, p.State())
		}
	}

	changed, completed := p.Update(centroid, true, geometry.Vector2D{})
	if p.State() != Attacking || !changed || completed {
		t.Fatalf("tick %d: state=%s changed=%v completed=%v; want a fresh attack", T+1, p.State(), changed, completed)
	}

	for tick := T + 2; tick <= T+params.AttackDuration; tick++ {
		p.Update(centroid, true, geometry.Vector2D{})
		if p.State() != Attacking {
			t.Fatalf("tick %d: State() = %s; want attacking", tick, p.State())
		}
	}
	if p.Cycles() != 0 {
		t.Fatalf("Cycles() = %d before the attack ended; want 0", p.Cycles())
	}

	_, completed = p.Update(centroid, true, geometry.Vector2D{})
	if !completed || p.Cycles() != 1 {
		t.Fatalf("tick %d: completed=%v cycles=%d; want the cycle complete", T+params.AttackDuration+1, completed, p.Cycles())
	}
	if p.State() != Circling {
		t.Errorf("State() = %s after the cycle; want circling", p.State())
	}
	if p.Timer() < params.MinTimer || p.Timer() > params.MaxTimer {
		t.Errorf("new Timer() = %d; want in [%d, %d]", p.Timer(), params.MinTimer, params.MaxTimer)
	}
	if p.Anchor.Eq(anchor) {
		t.Errorf("Anchor %v was not redrawn", p.Anchor)
	}
}

func TestPredator_CirclingSpeedCap(t *testing.T) {
	params := testPredatorParams()
	p := NewPredator(params, 800, 600, NewRandom(11))
	p.SetTimer(1000)
	p.Vel = geometry.Vector2D{X: 10, Y: 0}

	for i := 0; i < 200; i++ {
		p.Update(geometry.Vector2D{}, false, geometry.Vector2D{})
		if s := p.Vel.Len(); s > params.CirclingMaxSpeed+geometry.Epsilon || s < params.MinSpeed-geometry.Epsilon {
			t.Fatalf("tick %d: circling speed %v outside [%v, %v]", i, s, params.MinSpeed, params.CirclingMaxSpeed)
		}
	}
}

func TestPredator_AttackHeadsForCentroid(t *testing.T) {
	params := testPredatorParams()
	params.AttackDuration = 1000
	p := NewPredator(params, 800, 600, NewRandom(13))
	p.Pos = geometry.Vector2D{X: 400, Y: 300}
	p.Vel = geometry.Vector2D{X: 0, Y: 1}
	p.SetTimer(0)
	centroid := geometry.Vector2D{X: 500, Y: 300}

	p.Update(centroid, true, geometry.Vector2D{})
	if p.State() != Attacking {
		t.Fatalf("State() = %s; want attacking", p.State())
	}
	// (500-400) * 0.01 = +1 on X
	if want := (geometry.Vector2D{X: 1, Y: 1}); !p.Vel.Eq(want) {
		t.Errorf("Vel = %v; want %v", p.Vel, want)
	}
	if want := (geometry.Vector2D{X: 401, Y: 301}); !p.Pos.Eq(want) {
		t.Errorf("Pos = %v; want %v", p.Pos, want)
	}

	for i := 0; i < 10; i++ {
		p.Update(centroid, true, geometry.Vector2D{})
	}
	if d := p.Pos.DistanceTo(centroid); d >= 99 {
		t.Errorf("predator is still %v away from the centroid; want it to have closed in", d)
	}

	for i := 0; i < 300; i++ {
		p.Update(centroid, true, geometry.Vector2D{})
		if s := p.Vel.Len(); s > params.MaxSpeed+geometry.Epsilon {
			t.Fatalf("attack speed %v exceeds %v", s, params.MaxSpeed)
		}
	}
}

func TestPredator_WindAndNoPrey(t *testing.T) {
	p := NewPredator(testPredatorParams(), 800, 600, NewRandom(17))
	p.Pos = geometry.Vector2D{X: 400, Y: 300}
	p.Vel = geometry.Vector2D{X: 1, Y: 0}
	p.SetTimer(-1)
	wind := geometry.Vector2D{X: 0, Y: 0.5}

	p.Update(geometry.Vector2D{}, false, wind)
	if !p.Pos.IsFinite() {
		t.Fatalf("Pos = %v; want finite", p.Pos)
	}
	if want := (geometry.Vector2D{X: 401, Y: 300.5}); !p.Pos.Eq(want) {
		t.Errorf("Pos = %v; want %v", p.Pos, want)
	}
}
