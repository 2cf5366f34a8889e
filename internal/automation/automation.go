package automation

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/storage"
)

// Scenario is a scripted sequence of runs.
//
//	name: gravity ladder
//	steps:
//	  - preset: calm
//	    save_as: calm
//	  - preset: earth
//	    params: {gravity: 2000, duration: 5}
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (default config when empty) and applies
// Params by key, see config.SetParam.
type ScenarioStep struct {
	Preset  string             `yaml:"preset"`
	Falloff string             `yaml:"falloff"`
	Params  map[string]float64 `yaml:"params"`
	SaveAs  string             `yaml:"save_as"`
}

// StepResult pairs a finished step with the run id it was saved under,
// empty when no store was given.
type StepResult struct {
	RunID  string
	Result *sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Config resolves the configuration a step runs with.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s", config.ErrUnknownPreset, s.Preset)
		}
	}
	if s.Falloff != "" {
		cfg.Physics.Falloff = s.Falloff
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order. Each result is saved when st is
// not nil. Results completed before a failure are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, logger *log.Logger) ([]StepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		res, err := runConfig(ctx, cfg, logger)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		out := StepResult{Result: res}
		if st != nil {
			meta := storage.RunMetadata{
				ID:       step.SaveAs,
				Preset:   step.Preset,
				Seed:     cfg.Particles.Seed,
				Count:    len(res.Final),
				Dt:       cfg.Run.Dt,
				Duration: cfg.Run.Duration,
				World: storage.WorldInfo{
					Width:    cfg.World.Width,
					Height:   cfg.World.Height,
					Gravity:  cfg.Physics.Gravity,
					Friction: cfg.Physics.Friction,
					CellSize: cfg.World.CellSize,
					Falloff:  cfg.Physics.Falloff,
				},
			}
			if out.RunID, err = st.Save(meta, res); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

func runConfig(ctx context.Context, cfg *config.Config, logger *log.Logger) (*sim.Result, error) {
	w, err := cfg.NewWorld()
	if err != nil {
		return nil, err
	}
	s := sim.New(w, sim.WithLogger(logger))
	s.AddMetric(metrics.NewKineticEnergy())
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewMaxOverlap(cfg.World.CellSize))
	s.AddMetric(metrics.NewMeanSpeed())
	return s.Run(ctx, sim.Config{
		Dt:            cfg.Run.Dt,
		Duration:      cfg.Run.Duration,
		RecordEvery:   cfg.Run.RecordEvery,
		ValidateState: true,
	})
}

// ParameterSweep runs the base configuration across evenly spaced values
// of one parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from one sweep point.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Contacts   int
	MaxEnergy  float64
	MinEnergy  float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *log.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		res, err := runConfig(ctx, cfg, logger)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		minE, maxE := math.Inf(1), math.Inf(-1)
		for _, s := range res.Samples {
			minE = math.Min(minE, s.Kinetic)
			maxE = math.Max(maxE, s.Kinetic)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    res.Metrics,
			Contacts:   res.Contacts,
			MaxEnergy:  maxE,
			MinEnergy:  minE,
		})

		logger.Info("sweep", "point", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// Best returns the sweep point with the smallest value of metric.
func Best(results []SweepResult, metric string) (SweepResult, bool) {
	var best SweepResult
	found := false
	for _, r := range results {
		v, ok := r.Metrics[metric]
		if !ok {
			continue
		}
		if !found || v < best.Metrics[metric] {
			best, found = r, true
		}
	}
	return best, found
}
