package flock

import (
	"fmt"
	"math"
	"strings"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// FlockStats summarizes one flock of a frame.
type FlockStats struct {
	Color     int
	Size      int
	Centroid  geometry.Vector2D
	MeanSpeed float64
	// MeanNearest is the mean distance to the closest flockmate found in the
	// 3x3 cell block, over boids that have one.
	MeanNearest float64
	Isolated    int // boids with no flockmate in their 3x3 block
}

// Stats summarizes a frame for reports.
type Stats struct {
	Tick     uint64
	Flocks   []FlockStats
	Predator string
	Wind     geometry.Vector2D
}

// ComputeStats derives statistics from a frame. grid is reused when it matches
// the frame geometry and may be nil.
func ComputeStats(f *Frame, grid *Grid) Stats {
	if grid == nil || grid.CellSize() != f.CellSize ||
		grid.Cols() != gridSpan(f.Width, f.CellSize) || grid.Rows() != gridSpan(f.Height, f.CellSize) {
		grid = NewGrid(f.Width, f.Height, f.CellSize)
	}

	st := Stats{Tick: f.Tick, Wind: f.Wind, Predator: "none"}
	if f.HasPredator {
		st.Predator = f.Predator.State.String()
	}

	var buf []int
	for _, ff := range f.Flocks {
		fs := FlockStats{Color: ff.Color, Size: len(ff.Boids)}
		if len(ff.Boids) == 0 {
			st.Flocks = append(st.Flocks, fs)
			continue
		}

		grid.Clear()
		var sum geometry.Vector2D
		for i, b := range ff.Boids {
			grid.Insert(i, b.Pos)
			sum = sum.Add(b.Pos)
			fs.MeanSpeed += b.Vel.Len()
		}
		n := float64(len(ff.Boids))
		fs.Centroid = sum.Mul(1 / n)
		fs.MeanSpeed /= n

		var nearestSum float64
		withMate := 0
		for i, b := range ff.Boids {
			cx, cy := grid.CellOf(b.Pos)
			buf = grid.NeighborsOf(cx, cy, buf[:0])
			best := math.Inf(1)
			for _, j := range buf {
				if j == i {
					continue
				}
				best = math.Min(best, b.Pos.DistanceTo(ff.Boids[j].Pos))
			}
			if math.IsInf(best, 1) {
				fs.Isolated++
				continue
			}
			nearestSum += best
			withMate++
		}
		if withMate > 0 {
			fs.MeanNearest = nearestSum / float64(withMate)
		}
		st.Flocks = append(st.Flocks, fs)
	}
	return st
}

// String renders the statistics as a compact multi-line report.
func (s Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[T=%06d] predator=%-9s wind=%s\n", s.Tick, s.Predator, s.Wind)
	for _, f := range s.Flocks {
		fmt.Fprintf(&b, "  flock %d  n=%-4d centroid=%s speed=%.2f nearest=%.2f isolated=%d\n",
			f.Color, f.Size, f.Centroid, f.MeanSpeed, f.MeanNearest, f.Isolated)
	}
	return b.String()
}
