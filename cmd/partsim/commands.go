package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/partsim/internal/analysis"
	"github.com/san-kum/partsim/internal/automation"
	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/export"
	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
	"github.com/san-kum/partsim/internal/storage"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/san-kum/partsim/internal/world"
)

func defaultMetrics(cfg *config.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewEnergyDrift(),
		metrics.NewMomentum(),
		metrics.NewMeanSpeed(),
		metrics.NewMaxOverlap(cfg.World.CellSize),
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w, err := cfg.NewWorld()
	if err != nil {
		return err
	}

	s := sim.New(w, sim.WithLogger(logger))
	for _, m := range defaultMetrics(cfg) {
		s.AddMetric(m)
	}
	nextReport := 1.0
	s.AddObserver(sim.ObserverFunc(func(ps []physics.Particle, t float64, stats world.StepStats) {
		if t >= nextReport {
			logger.Debug("progress", "t", fmt.Sprintf("%.2f", t), "contacts", stats.Contacts, "walls", stats.BoundaryHits)
			nextReport++
		}
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running simulation", "particles", w.Len(), "duration", cfg.Run.Duration, "dt", cfg.Run.Dt)
	start := time.Now()

	result, err := s.Run(ctx, sim.Config{
		Dt:            cfg.Run.Dt,
		Duration:      cfg.Run.Duration,
		RecordEvery:   cfg.Run.RecordEvery,
		ValidateState: true,
	})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(runMetadata(cfg, w), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("contacts: %d\n", result.Contacts)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func runMetadata(cfg *config.Config, w *world.World) storage.RunMetadata {
	p := w.Params()
	return storage.RunMetadata{
		Preset:   preset,
		Seed:     cfg.Particles.Seed,
		Count:    w.Len(),
		Dt:       cfg.Run.Dt,
		Duration: cfg.Run.Duration,
		World: storage.WorldInfo{
			Width:    p.Width,
			Height:   p.Height,
			Gravity:  p.Gravity,
			Friction: p.Friction,
			CellSize: p.CellSize,
			Falloff:  p.Falloff.String(),
		},
	}
}

func worldParams(meta *storage.RunMetadata) (world.Params, error) {
	f, err := physics.ParseFalloff(meta.World.Falloff)
	if err != nil {
		return world.Params{}, err
	}
	return world.Params{
		Width:    meta.World.Width,
		Height:   meta.World.Height,
		Gravity:  meta.World.Gravity,
		Friction: meta.World.Friction,
		CellSize: meta.World.CellSize,
		Falloff:  f,
	}, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg, logger)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tPARTICLES\tDURATION\tDT\tCONTACTS")

	for _, run := range runs {
		name := run.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%.4fs\t%d\n",
			run.ID,
			name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Count,
			run.Duration,
			run.Dt,
			run.Contacts,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d\n", meta.Count)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(sim.Sample) float64
	}{
		{"kinetic energy", func(s sim.Sample) float64 { return s.Kinetic }},
		{"|momentum|", func(s sim.Sample) float64 { return math.Hypot(s.MomentumX, s.MomentumY) }},
		{"contacts per frame", func(s sim.Sample) float64 { return float64(s.Contacts) }},
		{"wall hits per frame", func(s sim.Sample) float64 { return float64(s.BoundaryHits) }},
	}

	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("not enough samples for analysis: %d", len(samples))
	}

	ke := make([]float64, len(samples))
	for i, s := range samples {
		ke[i] = s.Kinetic
	}
	sampleDt := samples[1].Time - samples[0].Time

	spectrum := analysis.PowerSpectrum(ke)
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("dominant kinetic energy frequency: %.4f Hz\n\n", analysis.DominantFrequency(ke, sampleDt))

	if len(spectrum) > 1 {
		graph := asciigraph.Plot(spectrum[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("kinetic energy spectrum"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	ps, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	fmt.Println("final speed distribution:")
	fmt.Print(analysis.SpeedHistogram(ps, 10, physics.MaxColorSpeed).String())

	if divergence {
		params, err := worldParams(meta)
		if err != nil {
			return err
		}
		res, err := analysis.Divergence(params, meta.Count, meta.Seed, meta.Dt, math.Min(meta.Duration, 5), 1e-6)
		if err != nil {
			return err
		}
		fmt.Printf("\ndivergence exponent: %.4f /s\n", res.Exponent)
	}

	return nil
}

// output opens outFile, or stdout when it is empty.
func output() (io.Writer, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportSeriesCSV(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	w, closeFn, err := output()
	if err != nil {
		return err
	}
	if err := storage.New(dataDir).ExportJSON(w, args[0]); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	ps, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	bounds := physics.Bounds{Width: meta.World.Width, Height: meta.World.Height}
	if err := os.WriteFile(path, []byte(export.FrameToSVG(ps, bounds, 1)), 0644); err != nil {
		return err
	}
	logger.Info("wrote frame", "path", path, "particles", len(ps))

	if chartFile != "" {
		samples, err := st.LoadSeries(runID)
		if err != nil {
			return err
		}
		times := make([]float64, len(samples))
		ke := make([]float64, len(samples))
		for i, s := range samples {
			times[i], ke[i] = s.Time, s.Kinetic
		}
		if err := os.WriteFile(chartFile, []byte(export.SeriesToSVG(times, ke, 800, 300, "#00ffff")), 0644); err != nil {
			return err
		}
		logger.Info("wrote chart", "path", chartFile)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tGRAVITY\tFALLOFF\tFRICTION\tWORLD")
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%s\t%g\t%gx%g\n",
			name,
			c.Particles.Count+len(c.Particles.Extra),
			c.Physics.Gravity,
			c.Physics.Falloff,
			c.Physics.Friction,
			c.World.Width, c.World.Height,
		)
	}
	return w.Flush()
}

func benchEnsemble(cmd *cobra.Command, args []string) error {
	if benchRuns < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", benchRuns)
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	ens := sim.NewEnsemble(params, cfg.Particles.Count, benchRuns, cfg.Particles.Seed).
		WithMetrics(func() []sim.Metric { return []sim.Metric{metrics.NewKineticEnergy()} })

	logger.Info("benchmarking", "runs", benchRuns, "particles", cfg.Particles.Count, "workers", runtime.GOMAXPROCS(0))
	start := time.Now()
	results, err := ens.Run(cmd.Context(), sim.Config{Dt: cfg.Run.Dt, Duration: cfg.Run.Duration, RecordEvery: cfg.Run.RecordEvery})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	steps, contacts, ke := 0, 0, 0.0
	for _, r := range results {
		steps += r.StepsTaken
		contacts += r.Contacts
		ke += r.Metrics["kinetic_energy"]
	}

	fmt.Printf("runs: %d\n", len(results))
	fmt.Printf("elapsed: %v\n", elapsed)
	fmt.Printf("steps/sec: %.0f\n", float64(steps)/elapsed.Seconds())
	fmt.Printf("particle-steps/sec: %.0f\n", float64(steps*cfg.Particles.Count)/elapsed.Seconds())
	fmt.Printf("contacts/run: %.1f\n", float64(contacts)/float64(len(results)))
	fmt.Printf("mean kinetic energy: %.4f\n", ke/float64(len(results)))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	logger.Info("wrote config", "path", args[0])
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("running scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	results, err := automation.RunScenario(ctx, scenario, st, logger)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tRUN ID\tPARTICLES\tCONTACTS\tKINETIC")
	for i, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.2f\n", i+1, id, len(r.Result.Final), r.Result.Contacts, r.Result.Metrics["kinetic_energy"])
	}
	if ferr := tw.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, logger)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tCONTACTS\tKE MIN\tKE MAX\t%s\n", strings.ToUpper(sweepParam), strings.ToUpper(sweepMetric))
	for _, r := range results {
		fmt.Fprintf(tw, "%g\t%d\t%.2f\t%.2f\t%.4f\n", r.ParamValue, r.Contacts, r.MinEnergy, r.MaxEnergy, r.Metrics[sweepMetric])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if best, ok := automation.Best(results, sweepMetric); ok {
		fmt.Printf("\nbest %s = %g (%s %.4f)\n", sweepParam, best.ParamValue, sweepMetric, best.Metrics[sweepMetric])
	} else {
		logger.Warn("metric not recorded", "metric", sweepMetric)
	}
	return nil
}
