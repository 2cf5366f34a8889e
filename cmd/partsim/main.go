package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/partsim/internal/config"
	"github.com/san-kum/partsim/internal/viz"
	"github.com/san-kum/partsim/internal/world"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string

	count     int
	gravity   float64
	friction  float64
	cellSize  float64
	width     float64
	height    float64
	dt        float64
	duration  float64
	seed      int64
	extra     []string
	falloff   string
	frameRate int

	outFile    string
	chartFile  string
	benchRuns  int
	divergence bool

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepMetric string
	noSave      bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.Kitchen,
	Prefix:          "partsim",
})

// main registers the commands and flags; with no subcommand it opens the
// preset picker.
func main() {
	rootCmd := &cobra.Command{
		Use:   "partsim",
		Short: "2d particle collision lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(logger)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".partsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency and speed analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().BoolVar(&divergence, "divergence", false, "also measure separation growth from a perturbed start")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run series to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [run_id]",
		Short: "render the final frame of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	snapshotCmd.Flags().StringVar(&chartFile, "chart", "", "also write the kinetic energy series as SVG")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time an ensemble of independent runs",
		Args:  cobra.NoArgs,
		RunE:  benchEnsemble,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntVar(&benchRuns, "runs", 8, "number of independent runs")

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the resolved configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	addSimFlags(initConfigCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a YAML scenario and save each run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report metrics per point",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", "parameter to sweep ("+strings.Join(config.ParamNames, ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2000, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of points")
	sweepCmd.Flags().StringVar(&sweepMetric, "best", "max_overlap", "metric to minimise")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, snapshotCmd, presetsCmd, benchCmd, initConfigCmd, scenarioCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml, gcfg or ini)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&count, "count", config.DefaultCount, "number of random particles")
	f.Float64Var(&gravity, "gravity", world.DefaultGravity, "central attraction constant")
	f.Float64Var(&friction, "friction", world.DefaultFriction, "velocity factor applied every frame")
	f.Float64Var(&cellSize, "cell-size", world.DefaultCellSize, "spatial hash cell size")
	f.Float64Var(&width, "width", world.DefaultWidth, "world width")
	f.Float64Var(&height, "height", world.DefaultHeight, "world height")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	f.StringArrayVar(&extra, "add", nil, "add a particle at x,y,vx,vy (repeatable)")
	f.StringVar(&falloff, "falloff", "inverse-square", "central force falloff (inverse-square, inverse-linear)")
	f.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate for live view")
}

// resolveConfig layers defaults, preset, config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s (available: %s)", config.ErrUnknownPreset, preset, strings.Join(config.ListPresets(), ", "))
		}
	}

	// config file overrides preset
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Particles.Count = count
	}
	if flags.Changed("gravity") {
		cfg.Physics.Gravity = gravity
	}
	if flags.Changed("friction") {
		cfg.Physics.Friction = friction
	}
	if flags.Changed("cell-size") {
		cfg.World.CellSize = cellSize
	}
	if flags.Changed("width") {
		cfg.World.Width = width
	}
	if flags.Changed("height") {
		cfg.World.Height = height
	}
	if flags.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Particles.Seed = seed
	}
	if flags.Changed("falloff") {
		cfg.Physics.Falloff = falloff
	}
	if flags.Changed("fps") {
		cfg.View.FPS = frameRate
	}
	for _, s := range extra {
		spec, err := config.ParseParticleSpec(s)
		if err != nil {
			return nil, err
		}
		cfg.Particles.Extra = append(cfg.Particles.Extra, spec)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
