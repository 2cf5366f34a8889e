package world

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/partsim/internal/physics"
)

// Ranges used for randomly created particles.
const (
	MinRadius = 3.0
	MaxRadius = 10.0
	MinMass   = 1.0
	MaxMass   = 5.0
	MaxSpeed  = 100.0
)

// Handle identifies a particle for the lifetime of its world. Particles are
// never removed, so a handle is its index in the arena.
type Handle int

// StepStats counts what happened during one frame.
type StepStats struct {
	BoundaryHits int
	Contacts     int
}

// World owns a particle population and advances it frame by frame.
// It is not safe for concurrent use; readers must not touch Particles while
// Step runs.
type World struct {
	params    Params
	bounds    physics.Bounds
	center    physics.Vec2
	particles []physics.Particle
	grid      *physics.Grid
	rng       *rand.Rand
}

// New returns an empty world. A nil rng is seeded from 1.
func New(params Params, rng *rand.Rand) (*World, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	b := params.Bounds()
	return &World{
		params: params,
		bounds: b,
		center: b.Center(),
		grid:   physics.NewGrid(params.CellSize),
		rng:    rng,
	}, nil
}

// Initialize returns a world populated with count random particles.
func Initialize(count int, params Params, rng *rand.Rand) (*World, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: particle count %d", ErrParameterBounds, count)
	}
	w, err := New(params, rng)
	if err != nil {
		return nil, err
	}
	w.particles = make([]physics.Particle, 0, count)
	for i := 0; i < count; i++ {
		w.AddRandom()
	}
	return w, nil
}

// AddRandom appends a particle placed uniformly in bounds with velocity
// components in [-MaxSpeed, MaxSpeed).
func (w *World) AddRandom() Handle {
	x := w.rng.Float64() * w.params.Width
	y := w.rng.Float64() * w.params.Height
	vx := (w.rng.Float64() - 0.5) * 2 * MaxSpeed
	vy := (w.rng.Float64() - 0.5) * 2 * MaxSpeed
	return w.AddParticle(x, y, vx, vy)
}

func (w *World) Params() Params                      { return w.params }
func (w *World) Bounds() physics.Bounds              { return w.bounds }
func (w *World) Center() physics.Vec2                { return w.center }
func (w *World) Len() int                            { return len(w.particles) }
func (w *World) Grid() *physics.Grid                 { return w.grid }
func (w *World) Particle(h Handle) *physics.Particle { return &w.particles[h] }

// Particles exposes the population for drawing between steps.
func (w *World) Particles() []physics.Particle { return w.particles }

// Snapshot copies the population.
func (w *World) Snapshot() []physics.Particle {
	out := make([]physics.Particle, len(w.particles))
	copy(out, w.particles)
	return out
}

// AddParticle appends a particle with the given position and velocity and a
// random radius and mass.
func (w *World) AddParticle(x, y, vx, vy float64) Handle {
	radius := MinRadius + w.rng.Float64()*(MaxRadius-MinRadius)
	mass := MinMass + w.rng.Float64()*(MaxMass-MinMass)
	return w.push(physics.NewParticle(x, y, vx, vy, radius, mass))
}

// Add appends a fully specified particle.
func (w *World) Add(p physics.Particle) (Handle, error) {
	if !p.Valid() {
		return -1, fmt.Errorf("%w: radius=%v mass=%v pos=%v vel=%v",
			ErrInvalidParticle, p.Radius, p.Mass, p.Pos, p.Vel)
	}
	return w.push(p), nil
}

func (w *World) push(p physics.Particle) Handle {
	w.particles = append(w.particles, p)
	return Handle(len(w.particles) - 1)
}

// Step advances the world by dt seconds:
// integrate, reflect off walls, rebuild the grid, resolve contacts, then
// apply the central pull. A rejected dt leaves the world untouched.
func (w *World) Step(dt float64) (StepStats, error) {
	var stats StepStats
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return stats, fmt.Errorf("%w: %v", ErrInvalidStep, dt)
	}

	ps := w.particles
	for i := range ps {
		ps[i].Integrate(dt, w.params.Friction)
	}

	for i := range ps {
		hx, hy := physics.ReflectBounds(&ps[i], w.bounds)
		if hx || hy {
			stats.BoundaryHits++
		}
	}

	w.grid.Rebuild(ps)
	stats.Contacts = physics.ResolveCollisions(ps, w.grid)

	physics.ApplyCentralForce(ps, w.center, w.params.Gravity, dt, w.params.Falloff)
	return stats, nil
}
