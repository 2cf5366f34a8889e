package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/physics"
)

// MaxOverlap records the deepest residual penetration between any two
// particles after a frame. Resolution is pairwise and local, so a crowded
// frame can leave some overlap behind.
type MaxOverlap struct {
	name  string
	worst float64
	grid  *physics.Grid
}

// NewMaxOverlap uses a private grid of the given cell size for the pair search.
func NewMaxOverlap(cellSize float64) *MaxOverlap {
	return &MaxOverlap{
		name: "max_overlap",
		grid: physics.NewGrid(cellSize),
	}
}

func (m *MaxOverlap) Name() string { return m.name }

func (m *MaxOverlap) Observe(ps []physics.Particle, t float64) {
	m.worst = math.Max(m.worst, Overlap(ps, m.grid))
}

func (m *MaxOverlap) Value() float64 { return m.worst }

func (m *MaxOverlap) Reset() { m.worst = 0 }

// Overlap returns the deepest penetration in ps, found through g.
// Particles larger than a cell can be missed against far neighbours.
func Overlap(ps []physics.Particle, g *physics.Grid) float64 {
	g.Rebuild(ps)
	var worst float64
	for _, c := range g.Cells() {
		g.ForEachPair(c, func(i, j int) {
			d := ps[j].Pos.Sub(ps[i].Pos).Len()
			if pen := ps[i].Radius + ps[j].Radius - d; pen > worst {
				worst = pen
			}
		})
	}
	return worst
}
