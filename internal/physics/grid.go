package physics

import "math"

// Cell is a grid coordinate, floor(pos / cellSize) per axis.
type Cell struct {
	X, Y int
}

var neighbourOffsets = [8]Cell{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid is a spatial hash over particle indices, rebuilt every frame.
// Buckets are reused between rebuilds and occupied cells are iterated in the
// order they were first filled, so a rebuild from the same particles always
// yields the same traversal.
type Grid struct {
	cellSize float64
	buckets  map[Cell][]int
	order    []Cell
}

// NewGrid returns an empty grid. cellSize must be positive.
func NewGrid(cellSize float64) *Grid {
	return &Grid{
		cellSize: cellSize,
		buckets:  make(map[Cell][]int),
	}
}

func (g *Grid) CellSize() float64 { return g.cellSize }

// CellOf returns the cell containing pos.
func (g *Grid) CellOf(pos Vec2) Cell {
	return Cell{
		X: int(math.Floor(pos.X / g.cellSize)),
		Y: int(math.Floor(pos.Y / g.cellSize)),
	}
}

// Rebuild clears the grid and inserts index i for every particle.
func (g *Grid) Rebuild(particles []Particle) {
	for _, c := range g.order {
		g.buckets[c] = g.buckets[c][:0]
	}
	g.order = g.order[:0]

	for i := range particles {
		c := g.CellOf(particles[i].Pos)
		bucket := g.buckets[c]
		if len(bucket) == 0 {
			g.order = append(g.order, c)
		}
		g.buckets[c] = append(bucket, i)
	}
}

// Cells returns the occupied cells in traversal order. The slice is owned by
// the grid and is only valid until the next Rebuild.
func (g *Grid) Cells() []Cell { return g.order }

// Bucket returns the particle indices stored in c.
func (g *Grid) Bucket(c Cell) []int { return g.buckets[c] }

// Len is the total number of indices across all buckets.
func (g *Grid) Len() int {
	n := 0
	for _, c := range g.order {
		n += len(g.buckets[c])
	}
	return n
}

// ForEachPair visits every same-cell pair of c once, then every particle of c
// against every particle in the eight neighbouring cells. A pair straddling
// two occupied cells is visited once from each side.
func (g *Grid) ForEachPair(c Cell, visit func(i, j int)) {
	bucket := g.buckets[c]
	for a := 0; a < len(bucket); a++ {
		for b := a + 1; b < len(bucket); b++ {
			visit(bucket[a], bucket[b])
		}
	}

	for _, i := range bucket {
		for _, off := range neighbourOffsets {
			for _, j := range g.buckets[Cell{c.X + off.X, c.Y + off.Y}] {
				visit(i, j)
			}
		}
	}
}
