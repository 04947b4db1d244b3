package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/storage"
)

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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tTICKS\tDT\tBODIES\tMERGES\tBOUNCES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d->%d\t%d\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.TickLength,
			run.Bodies,
			run.Survivors,
			run.Merges,
			run.Bounces,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, storage.Trace, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(trace) == 0 {
		return nil, nil, fmt.Errorf("run %s has no recorded samples", runID)
	}
	return meta, trace, nil
}

func plotSeries(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}

	id := plotBody
	if !cmd.Flags().Changed("body") {
		id = trace.IDs()[0]
	}
	rows := trace.Body(id)
	if len(rows) == 0 {
		return fmt.Errorf("body %d not found in run (ids: %v)", id, trace.IDs())
	}

	fields := []string{"x", "y", "speed"}
	if plotField != "" {
		fields = []string{plotField}
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Name)
	fmt.Printf("body: %d  samples: %d\n\n", id, len(rows))

	for _, f := range fields {
		data, ok := rows.Column(f)
		if !ok {
			return fmt.Errorf("unknown field: %s", f)
		}
		fmt.Println(plotSeries(data, fmt.Sprintf("body %d %s vs time", id, f)))
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}

	interval := float64(meta.RecordEvery) * meta.TickLength
	fmt.Printf("orbital analysis: %s\n", meta.ID)
	fmt.Printf("scenario: %s  sample interval: %.4gs\n\n", meta.Name, interval)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODY\tSAMPLES\tFFT PERIOD\tCROSSING PERIOD")

	for _, id := range trace.IDs() {
		rows := trace.Body(id)
		xs, _ := rows.Column("x")

		fftPeriod := analysis.DominantPeriod(xs, interval)

		mean := 0.0
		for _, x := range xs {
			mean += x
		}
		mean /= float64(len(xs))
		crossing := analysis.MeanInterval(analysis.Crossings(rows.Times(), xs, mean))

		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", id, len(rows), period(fftPeriod), period(crossing))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if phase {
		for _, id := range trace.IDs() {
			rows := trace.Body(id)
			xs, _ := rows.Column("x")
			ys, _ := rows.Column("y")
			fmt.Printf("\nbody %d\n", id)
			fmt.Print(analysis.NewPhasePortrait("x", xs, "y", ys).ASCII(60, 20))
		}
	}

	return nil
}

func period(p float64) string {
	if p <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.4gs", p)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)

	if outFile == "" {
		return st.ExportJSON(os.Stdout, args[0])
	}

	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := st.ExportJSON(f, args[0]); err != nil {
		return err
	}
	logger.Info("exported", "run", args[0], "path", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, trace, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(export.TraceToSVG(trace, width, height)), 0644); err != nil {
		return err
	}
	logger.Info("exported", "run", args[0], "path", path)
	return nil
}
