package sim

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/world"
)

// Simulator drives a world at a fixed timestep and records what happens.
type Simulator struct {
	world     *world.World
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
	time      float64
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func New(w *world.World, opts ...Option) *Simulator {
	s := &Simulator{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) World() *world.World { return s.world }

// Time is the simulated time accumulated by Run and Advance.
func (s *Simulator) Time() float64 { return s.time }

// Advance steps the world once and notifies observers. Live drivers call it
// with the dt produced by a Clock.
func (s *Simulator) Advance(dt float64) (world.StepStats, error) {
	stats, err := s.world.Step(dt)
	if err != nil {
		return stats, err
	}
	s.time += dt
	for _, obs := range s.observers {
		obs.OnStep(s.world.Particles(), s.time, stats)
	}
	return stats, nil
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := stepCount(cfg)
	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, steps/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	ps := s.world.Particles()
	result.Samples = append(result.Samples, sample(ps, s.time, world.StepStats{}))
	s.observe(ps)

	s.logger.Debug("run started", "particles", len(ps), "steps", steps, "dt", cfg.Dt)

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		stats, err := s.Advance(cfg.Dt)
		if err != nil {
			runErr = &SimError{Step: i, Time: s.time, Message: err.Error(), Wrapped: err}
			break
		}
		result.StepsTaken++
		result.Contacts += stats.Contacts

		ps = s.world.Particles()
		if cfg.ValidateState {
			if bad := firstInvalid(ps); bad >= 0 {
				runErr = &SimError{
					Step:    i,
					Time:    s.time,
					Message: fmt.Sprintf("particle %d has non-finite state", bad),
					Wrapped: ErrUnstable,
				}
				s.logger.Error("unstable state", "step", i, "particle", bad)
				break
			}
		}

		s.observe(ps)
		if (i+1)%every == 0 {
			result.Samples = append(result.Samples, sample(ps, s.time, stats))
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = s.world.Snapshot()

	s.logger.Debug("run finished", "steps", result.StepsTaken, "contacts", result.Contacts)
	return result, runErr
}

// RunWithCallback steps until Duration elapses, the context ends, or the
// callback returns false. The callback sees each frame before it is stepped.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(ps []physics.Particle, t float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := stepCount(cfg)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s.world.Particles(), s.time) {
			return nil
		}

		if _, err := s.Advance(cfg.Dt); err != nil {
			return err
		}

		if cfg.ValidateState {
			if bad := firstInvalid(s.world.Particles()); bad >= 0 {
				return &SimError{Step: i, Time: s.time, Message: "non-finite particle state", Wrapped: ErrUnstable}
			}
		}
	}

	return nil
}

func (s *Simulator) observe(ps []physics.Particle) {
	for _, m := range s.metrics {
		m.Observe(ps, s.time)
	}
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive and finite, got %v", world.ErrInvalidStep, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive and finite, got %v", world.ErrParameterBounds, cfg.Duration)
	}
	if cfg.RecordEvery < 0 {
		return fmt.Errorf("%w: record interval %d", world.ErrParameterBounds, cfg.RecordEvery)
	}
	return nil
}

// stepCount tolerates Duration/Dt landing just below an integer.
func stepCount(cfg Config) int {
	return int(cfg.Duration/cfg.Dt + 1e-9)
}

func sample(ps []physics.Particle, t float64, stats world.StepStats) Sample {
	p := metrics.TotalMomentum(ps)
	return Sample{
		Time:         t,
		Kinetic:      metrics.Kinetic(ps),
		MomentumX:    p.X,
		MomentumY:    p.Y,
		Contacts:     stats.Contacts,
		BoundaryHits: stats.BoundaryHits,
	}
}

func firstInvalid(ps []physics.Particle) int {
	for i := range ps {
		if !ps[i].Pos.IsFinite() || !ps[i].Vel.IsFinite() {
			return i
		}
	}
	return -1
}
