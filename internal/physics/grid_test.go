package physics

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func randomParticles(rng *rand.Rand, n int, w, h float64) []Particle {
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = NewParticle(rng.Float64()*w, rng.Float64()*h, 0, 0, 3, 1)
	}
	return ps
}

func TestGridRebuild_Partition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGrid(20)

	for _, n := range []int{0, 1, 17, 500} {
		ps := randomParticles(rng, n, 800, 600)
		g.Rebuild(ps)

		if g.Len() != n {
			t.Fatalf("n=%d: grid holds %d indices", n, g.Len())
		}

		var seen []int
		for _, c := range g.Cells() {
			for _, i := range g.Bucket(c) {
				if got := g.CellOf(ps[i].Pos); got != c {
					t.Errorf("particle %d stored in %v, belongs in %v", i, c, got)
				}
				seen = append(seen, i)
			}
		}
		sort.Ints(seen)

		want := make([]int, n)
		for i := range want {
			want[i] = i
		}
		if n == 0 {
			want, seen = nil, nil
		}
		if diff := cmp.Diff(want, seen); diff != "" {
			t.Errorf("n=%d: indices mismatch (-want +got):\n%s", n, diff)
		}
	}
}

func TestGridCellOf(t *testing.T) {
	g := NewGrid(20)
	tests := []struct {
		pos  Vec2
		want Cell
	}{
		{Vec2{0, 0}, Cell{0, 0}},
		{Vec2{19.999, 39.999}, Cell{0, 1}},
		{Vec2{20, 40}, Cell{1, 2}},
		{Vec2{-0.5, -20}, Cell{-1, -1}},
		{Vec2{-20.1, 5}, Cell{-2, 0}},
	}
	for _, tt := range tests {
		if got := g.CellOf(tt.pos); got != tt.want {
			t.Errorf("CellOf(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestGridRebuild_ClearsPreviousFrame(t *testing.T) {
	g := NewGrid(10)
	g.Rebuild([]Particle{NewParticle(5, 5, 0, 0, 1, 1), NewParticle(55, 5, 0, 0, 1, 1)})
	g.Rebuild([]Particle{NewParticle(95, 95, 0, 0, 1, 1)})

	if diff := cmp.Diff([]Cell{{9, 9}}, g.Cells()); diff != "" {
		t.Errorf("cells (-want +got):\n%s", diff)
	}
	if len(g.Bucket(Cell{0, 0})) != 0 {
		t.Error("stale bucket survived rebuild")
	}
	if g.Len() != 1 {
		t.Errorf("Len = %d, want 1", g.Len())
	}
}

func TestGridCells_InsertionOrder(t *testing.T) {
	g := NewGrid(10)
	ps := []Particle{
		NewParticle(35, 5, 0, 0, 1, 1),
		NewParticle(5, 5, 0, 0, 1, 1),
		NewParticle(36, 6, 0, 0, 1, 1),
		NewParticle(15, 25, 0, 0, 1, 1),
	}
	g.Rebuild(ps)

	want := []Cell{{3, 0}, {0, 0}, {1, 2}}
	if diff := cmp.Diff(want, g.Cells()); diff != "" {
		t.Errorf("cells (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2}, g.Bucket(Cell{3, 0})); diff != "" {
		t.Errorf("bucket (-want +got):\n%s", diff)
	}
}

type pair struct{ i, j int }

func collectPairs(g *Grid) map[pair]int {
	visits := make(map[pair]int)
	for _, c := range g.Cells() {
		g.ForEachPair(c, func(i, j int) {
			if i > j {
				i, j = j, i
			}
			visits[pair{i, j}]++
		})
	}
	return visits
}

func TestForEachPair_SameCellOnce(t *testing.T) {
	g := NewGrid(20)
	g.Rebuild([]Particle{
		NewParticle(1, 1, 0, 0, 1, 1),
		NewParticle(2, 2, 0, 0, 1, 1),
		NewParticle(3, 3, 0, 0, 1, 1),
	})

	var got []pair
	g.ForEachPair(Cell{0, 0}, func(i, j int) { got = append(got, pair{i, j}) })

	want := []pair{{0, 1}, {0, 2}, {1, 2}}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(pair{})); diff != "" {
		t.Errorf("pairs (-want +got):\n%s", diff)
	}
}

func TestForEachPair_CrossCellVisitedFromBothSides(t *testing.T) {
	g := NewGrid(20)
	g.Rebuild([]Particle{
		NewParticle(19, 10, 0, 0, 2, 1),
		NewParticle(21, 10, 0, 0, 2, 1),
		NewParticle(41, 21, 0, 0, 2, 1),
		NewParticle(100, 100, 0, 0, 2, 1),
	})

	visits := collectPairs(g)
	want := map[pair]int{
		{0, 1}: 2,
		{1, 2}: 2,
	}
	if diff := cmp.Diff(want, visits, cmp.AllowUnexported(pair{})); diff != "" {
		t.Errorf("visits (-want +got):\n%s", diff)
	}
}

func TestResolveCollisions_AcrossCells(t *testing.T) {
	ps := []Particle{
		NewParticle(19, 10, 0, 0, 2, 1),
		NewParticle(21, 10, 0, 0, 2, 1),
	}
	g := NewGrid(20)
	g.Rebuild(ps)

	if got := ResolveCollisions(ps, g); got != 1 {
		t.Fatalf("contacts = %d, want 1", got)
	}
	if ps[0].Pos.X != 18 || ps[1].Pos.X != 22 {
		t.Errorf("positions = %v, %v; want 18, 22", ps[0].Pos.X, ps[1].Pos.X)
	}
}

func TestResolveCollisions_Empty(t *testing.T) {
	g := NewGrid(20)
	g.Rebuild(nil)
	if got := ResolveCollisions(nil, g); got != 0 {
		t.Errorf("contacts = %d, want 0", got)
	}
}
