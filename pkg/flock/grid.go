package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
)

// Grid partitions the world into square cells holding boid indices.
// It is rebuilt from scratch every tick; cells are never maintained incrementally.
type Grid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int // flat, row-major: cells[cy*cols+cx]
}

// NewGrid creates a grid covering a width x height world.
func NewGrid(width, height, cellSize float64) *Grid {
	cols := gridSpan(width, cellSize)
	rows := gridSpan(height, cellSize)

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}
	return &Grid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// gridSpan is the number of cells needed to cover length, at least one.
func gridSpan(length, cellSize float64) int {
	return max(int(math.Ceil(length/cellSize)), 1)
}

// Cols is the number of cells along X.
func (g *Grid) Cols() int { return g.cols }

// Rows is the number of cells along Y.
func (g *Grid) Rows() int { return g.rows }

// CellSize is the edge length of a cell.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Clear empties every cell but keeps the capacity of the underlying slices,
// so a rebuild allocates almost nothing once the grid has warmed up.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert files index i under the cell containing p.
func (g *Grid) Insert(i int, p geometry.Vector2D) {
	cx, cy := g.CellOf(p)
	idx := cy*g.cols + cx
	g.cells[idx] = append(g.cells[idx], i)
}

// Rebuild clears the grid and files every boid under the cell containing its position.
func (g *Grid) Rebuild(boids []Boid) {
	g.Clear()
	for i := range boids {
		g.Insert(i, boids[i].Pos)
	}
}

// CellOf returns the cell coordinates of p. Positions outside the world
// are clamped to the outermost ring of cells.
func (g *Grid) CellOf(p geometry.Vector2D) (int, int) {
	return clampCell(p.X, g.cellSize, g.cols), clampCell(p.Y, g.cellSize, g.rows)
}

func clampCell(v, size float64, n int) int {
	// NaN and huge values must not reach the int conversion unchecked
	f := math.Floor(v / size)
	switch {
	case !(f >= 0):
		return 0
	case f >= float64(n):
		return n - 1
	}
	return int(f)
}

// Cell returns the indices filed under (cx, cy), nil when out of range.
// The returned slice is owned by the grid and valid until the next rebuild.
func (g *Grid) Cell(cx, cy int) []int {
	if cx < 0 || cy < 0 || cx >= g.cols || cy >= g.rows {
		return nil
	}
	return g.cells[cy*g.cols+cx]
}

// NeighborsOf appends to dst the indices of the 3x3 block of cells centred on
// (cx, cy) and returns the extended slice. Out of range cells are skipped,
// there is no wraparound.
func (g *Grid) NeighborsOf(cx, cy int, dst []int) []int {
	for j := cy - 1; j <= cy+1; j++ {
		if j < 0 || j >= g.rows {
			continue
		}
		for i := cx - 1; i <= cx+1; i++ {
			if i < 0 || i >= g.cols {
				continue
			}
			dst = append(dst, g.cells[j*g.cols+i]...)
		}
	}
	return dst
}

// forEachOccupied calls fn for every non empty cell in [from, to) of the flat cell range.
func (g *Grid) forEachOccupied(from, to int, fn func(cx, cy int, members []int)) {
	for idx := from; idx < to; idx++ {
		members := g.cells[idx]
		if len(members) == 0 {
			continue
		}
		fn(idx%g.cols, idx/g.cols, members)
	}
}

// numCells returns the number of cells.
func (g *Grid) numCells() int { return len(g.cells) }
