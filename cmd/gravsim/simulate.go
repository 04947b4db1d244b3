package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/engine"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/runner"
	"github.com/san-kum/gravsim/internal/server"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/sweep"
	"github.com/san-kum/gravsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng, err := cfg.Build()
	if err != nil {
		return err
	}

	recorder := storage.NewRecorder(cfg.RecordEvery)
	set := metrics.DefaultSet()
	r := runner.New(eng, runner.WithLogger(logger), runner.WithObserver(recorder), runner.WithObserver(set))

	initial := r.Snapshot()
	recorder.OnTick(initial)
	set.OnTick(initial)

	logger.Info("running scenario", "name", cfg.Name, "bodies", len(initial.Objects), "ticks", cfg.Ticks)
	start := time.Now()

	var stepErr error
	for i := 0; i < cfg.Ticks; i++ {
		if stepErr = r.Step(); stepErr != nil {
			logger.Error("run halted", "err", stepErr)
			break
		}
	}
	elapsed := time.Since(start)
	final := r.Snapshot()

	meta := storage.RunMetadata{
		Name:        cfg.Name,
		G:           final.G,
		TickLength:  final.TickLength.Seconds(),
		Ticks:       int(final.Tick),
		RecordEvery: cfg.RecordEvery,
		Bodies:      len(initial.Objects),
		Survivors:   len(final.Objects),
		Merges:      final.Merges,
		Bounces:     final.Bounces,
		Metrics:     set.Values(),
	}
	runID, err := st.Save(meta, recorder.Trace())
	if err != nil {
		return err
	}

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.SnapshotToSVG(final, 800, 800)), 0644); err != nil {
			return err
		}
		logger.Info("final state written", "path", svgOut)
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d  bodies: %d -> %d  merges: %d  bounces: %d\n",
		final.Tick, len(initial.Objects), len(final.Objects), final.Merges, final.Bounces)
	fmt.Println("\nmetrics:")
	printMetrics(meta.Metrics)

	return stepErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	eng, err := cfg.Build()
	if err != nil {
		return err
	}

	// the terminal belongs to the TUI; keep runner logs out of it
	var sink io.Writer = io.Discard
	if verbose {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		f, err := os.Create(filepath.Join(dataDir, "live.log"))
		if err != nil {
			return err
		}
		defer f.Close()
		sink = f
	}
	runLogger := log.NewWithOptions(sink, log.Options{ReportTimestamp: true, Level: log.DebugLevel})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	r := runner.New(eng, runner.WithLogger(runLogger))
	if startRunning {
		r.Run(ctx)
	}

	m := viz.NewModel(ctx, r, cfg.Name, cfg.Populate)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	r.Stop()
	r.Wait()
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	eng, err := cfg.Build()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(eng, runner.WithLogger(logger))
	srv := server.New(r, server.WithLogger(logger), server.WithBroadcastEvery(broadcastEvery))

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(addr) }()

	r.Run(ctx)

	select {
	case err = <-errc:
	case <-ctx.Done():
	}

	r.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("shutdown", "err", serr)
	}
	r.Wait()

	if err == nil {
		err = r.Err()
	}
	return err
}

func runDiverge(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	if deltaIdx < 0 || deltaIdx >= len(cfg.Bodies) {
		return fmt.Errorf("body index %d out of range (scenario has %d bodies)", deltaIdx, len(cfg.Bodies))
	}

	base, err := cfg.Build()
	if err != nil {
		return err
	}

	perturbedCfg := *cfg
	perturbedCfg.Bodies = append(perturbedCfg.Bodies[:0:0], cfg.Bodies...)
	perturbedCfg.Bodies[deltaIdx].Pos[0] += delta
	perturbed, err := perturbedCfg.Build()
	if err != nil {
		return err
	}

	res, err := analysis.Divergence(base, perturbed, cfg.Ticks)
	if err != nil {
		return err
	}
	if len(res.Separations) < cfg.Ticks {
		logger.Warn("state went non-finite", "after", len(res.Separations))
	}
	if len(res.Separations) == 0 {
		return errors.New("no finite samples")
	}

	fmt.Printf("scenario: %s\n", cfg.Name)
	fmt.Printf("initial separation: %.3g\n", res.Initial)
	fmt.Printf("final separation:   %.3g\n", res.Separations[len(res.Separations)-1])
	fmt.Printf("growth exponent:    %.4g /s\n", res.Exponent)
	fmt.Println()
	fmt.Println(plotSeries(res.Separations, "separation"))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	points := sweep.Grid(sweepGs, sweepRestitutions)
	if len(points) == 0 {
		return errors.New("nothing to sweep")
	}

	build := func(p sweep.Point) (*engine.Engine, error) {
		return cfg.Build(engine.WithG(p.G), engine.WithRestitution(p.Restitution))
	}

	logger.Info("sweeping", "scenario", cfg.Name, "runs", len(points), "ticks", cfg.Ticks, "workers", workers)
	start := time.Now()
	results := sweep.Run(cmd.Context(), points, build, cfg.Ticks, workers)
	logger.Info("sweep finished", "elapsed", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "G\tRESTITUTION\tTICKS\tSURVIVORS\tMERGES\tBOUNCES\t%s\n", sweepMetric)
	for _, r := range results {
		value := "-"
		if r.Err != nil {
			value = r.Err.Error()
		} else if v, ok := r.Metrics[sweepMetric]; ok {
			value = fmt.Sprintf("%.6g", v)
		}
		fmt.Fprintf(w, "%.4g\t%.3g\t%d\t%d\t%d\t%d\t%s\n",
			r.G, r.Restitution, r.Ticks, r.Survivors, r.Merges, r.Bounces, value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := sweep.Best(results, sweepMetric); ok {
		fmt.Printf("\nbest: g=%.4g restitution=%.3g (%s %.6g)\n", best.G, best.Restitution, sweepMetric, best.Metrics[sweepMetric])
	}
	return nil
}
