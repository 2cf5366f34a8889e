package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/world"
)

// ErrUnstable indicates a particle position or velocity became NaN or Inf.
var ErrUnstable = errors.New("sim: simulation unstable (non-finite particle state)")

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(ps []physics.Particle, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every step.
type Observer interface {
	OnStep(ps []physics.Particle, t float64, stats world.StepStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ps []physics.Particle, t float64, stats world.StepStats)

func (f ObserverFunc) OnStep(ps []physics.Particle, t float64, stats world.StepStats) {
	f(ps, t, stats)
}

type Config struct {
	Dt       float64
	Duration float64
	// RecordEvery keeps one sample per this many steps; 0 means every step.
	RecordEvery   int
	ValidateState bool
}

// Sample is one recorded frame summary.
type Sample struct {
	Time         float64
	Kinetic      float64
	MomentumX    float64
	MomentumY    float64
	Contacts     int
	BoundaryHits int
}

type Result struct {
	Samples    []Sample
	Final      []physics.Particle
	Metrics    map[string]float64
	StepsTaken int
	Contacts   int
}

// Kinetic returns the kinetic energy column of the recorded samples.
func (r *Result) Kinetic() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Kinetic
	}
	return out
}

// SimError carries the step at which a run failed.
type SimError struct {
	Step    int
	Time    float64
	Message string
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e *SimError) Unwrap() error { return e.Wrapped }
