package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sweep"
)

var (
	dataDir     string
	verbose     bool
	configFile  string
	ticks       int
	g           float64
	collisions  bool
	elastic     bool
	recordEvery int
	svgOut      string

	startRunning bool

	addr           string
	broadcastEvery int

	plotBody  uint64
	plotField string

	phase    bool
	outFile  string
	width    int
	height   int
	delta    float64
	deltaIdx int

	sweepGs           []float64
	sweepRestitutions []float64
	sweepMetric       string
	workers           int

	logger *log.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "2d gravity simulation engine",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "gravsim",
			})
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario headless and record its trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	runCmd.Flags().IntVar(&recordEvery, "record-every", config.DefaultRecordEvery, "ticks between trace samples")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write the final state as svg")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)
	liveCmd.Flags().BoolVar(&startRunning, "start", false, "start the simulation immediately")

	serveCmd := &cobra.Command{
		Use:   "serve [preset]",
		Short: "run a scenario and serve metrics, state and a websocket stream",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	scenarioFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&broadcastEvery, "broadcast-every", 10, "ticks between websocket frames")

	divergeCmd := &cobra.Command{
		Use:   "diverge [preset]",
		Short: "measure separation growth between two nearby runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDiverge,
	}
	scenarioFlags(divergeCmd)
	divergeCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks")
	divergeCmd.Flags().Float64Var(&delta, "delta", 1e-6, "initial x offset")
	divergeCmd.Flags().IntVar(&deltaIdx, "body", 1, "index of the perturbed body")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a scenario across several g and restitution values",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	scenarioFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "number of ticks per run")
	sweepCmd.Flags().Float64SliceVar(&sweepGs, "gs", []float64{0.5, 1, 2}, "g values")
	sweepCmd.Flags().Float64SliceVar(&sweepRestitutions, "restitutions", []float64{1}, "restitution values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimize")
	sweepCmd.Flags().IntVar(&workers, "workers", sweep.DefaultWorkers, "parallel runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body's trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().Uint64Var(&plotBody, "body", 0, "body id (default: first recorded)")
	plotCmd.Flags().StringVar(&plotField, "field", "", "column to plot: x, y, vx, vy, ax, ay, speed, mass, radius (default: x, y, speed)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate orbital periods",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().BoolVar(&phase, "phase", false, "draw x/y portraits")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run's trajectories to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: <run_id>.svg)")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 800, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s %d bodies\n", name, len(p.Bodies))
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [preset] [path]",
		Short: "write a preset as an editable yaml scenario",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return unknownPreset(args[0])
			}
			path := args[0] + ".yaml"
			if len(args) == 2 {
				path = args[1]
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			logger.Info("scenario written", "path", path)
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, divergeCmd, sweepCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().Float64Var(&g, "g", 0, "gravitational constant")
	cmd.Flags().BoolVar(&collisions, "collisions", false, "enable collision detection")
	cmd.Flags().BoolVar(&elastic, "elastic", false, "bounce instead of merging on contact")
}

func unknownPreset(name string) error {
	return fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
}

// loadScenario resolves the scenario from --config or a preset name, then
// applies any flags the user set explicitly.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	} else {
		name := "orbit"
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, unknownPreset(name)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("g") {
		cfg.G = g
	}
	if flags.Changed("collisions") {
		cfg.Collisions.Enabled = collisions
	}
	if flags.Changed("elastic") {
		cfg.Collisions.Elastic = elastic
		if elastic {
			cfg.Collisions.Enabled = true
		}
	}
	if flags.Lookup("ticks") != nil && flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Lookup("record-every") != nil && flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
