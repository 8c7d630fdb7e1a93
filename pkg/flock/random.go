package flock

import (
	"math/rand/v2"
	"time"
)

// Random is the source of every random draw of a Simulation.
// *rand.Rand from math/rand/v2 satisfies it.
type Random interface {
	Float64() float64 // in [0.0, 1.0)
	IntN(n int) int   // in [0, n)
}

// NewRandom returns a PCG backed source. A zero seed is replaced by the clock.
func NewRandom(seed uint64) Random {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// uniform returns a float64 in [lo, hi).
func uniform(r Random, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// intBetween returns an int in [lo, hi], both inclusive.
func intBetween(r Random, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}
