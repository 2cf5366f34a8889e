package analysis

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/world"
)

// DivergenceResult holds the separation after every step.
type DivergenceResult struct {
	Exponent   float64
	Separation []float64
	Times      []float64
}

// Divergence runs two copies of the same seeded world, nudges particle 0 of
// the second by perturbation along x, and reports how fast the two
// populations separate.
//
// The result is the finite-time exponent ln(d(T)/d0)/T, where d is the
// Euclidean distance over every position and velocity.
func Divergence(params world.Params, count int, seed int64, dt, duration, perturbation float64) (*DivergenceResult, error) {
	if !(dt > 0) || !(duration > 0) {
		return nil, fmt.Errorf("%w: dt=%v duration=%v", world.ErrInvalidStep, dt, duration)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: divergence needs at least one particle", world.ErrParameterBounds)
	}
	if !(perturbation > 0) {
		return nil, fmt.Errorf("%w: perturbation %v", world.ErrParameterBounds, perturbation)
	}

	a, err := world.Initialize(count, params, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	b, err := world.Initialize(count, params, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	b.Particle(0).Pos.X += perturbation

	steps := int(duration/dt + 1e-9)
	res := &DivergenceResult{
		Separation: make([]float64, 0, steps),
		Times:      make([]float64, 0, steps),
	}

	t := 0.0
	for i := 0; i < steps; i++ {
		if _, err := a.Step(dt); err != nil {
			return nil, err
		}
		if _, err := b.Step(dt); err != nil {
			return nil, err
		}
		t += dt
		res.Separation = append(res.Separation, separation(a.Particles(), b.Particles()))
		res.Times = append(res.Times, t)
	}

	if t > 0 {
		if last := res.Separation[len(res.Separation)-1]; last > 0 {
			res.Exponent = math.Log(last/perturbation) / t
		}
	}
	return res, nil
}

func separation(a, b []physics.Particle) float64 {
	sum := 0.0
	for i := range a {
		sum += b[i].Pos.Sub(a[i].Pos).LenSq() + b[i].Vel.Sub(a[i].Vel).LenSq()
	}
	return math.Sqrt(sum)
}
