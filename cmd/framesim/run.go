package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/framesim/internal/analysis"
	"github.com/san-kum/framesim/internal/automation"
	"github.com/san-kum/framesim/internal/config"
	"github.com/san-kum/framesim/internal/export"
	"github.com/san-kum/framesim/internal/gui"
	"github.com/san-kum/framesim/internal/optim"
	"github.com/san-kum/framesim/internal/sim"
	"github.com/san-kum/framesim/internal/storage"
	"github.com/san-kum/framesim/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func runLive(cmd *cobra.Command, args []string) error {
	if pick {
		choice, ok, err := viz.Pick(registry.ListDomains())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		args, preset = []string{choice.Domain}, choice.Preset
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	g, err := viz.ParseGlyph(glyph)
	if err != nil {
		return err
	}

	s, err := registry.Build(cfg, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	m := viz.NewModel(cmd.Context(), s.Loop, viz.NewTerminal(g), s.Metric,
		viz.WithFPS(cfg.FPS),
		viz.WithTheme(theme),
		viz.WithGIFPath(gifPath),
		viz.WithLogger(logger),
	)
	return viz.Run(m)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	s, err := registry.Build(cfg, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	app := gui.NewApp(s.Loop, s.Metric)
	app.Title = "framesim - " + cfg.Domain
	app.FPS = cfg.FPS
	app.Logger = logger
	return app.Run(cmd.Context())
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("frames")
	out, _ := cmd.Flags().GetString("out")

	rec := export.NewGIFRecorder(export.DefaultDelay, 0)
	s, err := registry.Build(cfg, sim.WithLogger(logger), sim.WithPresenter(rec))
	if err != nil {
		return err
	}
	defer s.Loop.Close()

	start := time.Now()
	if err := s.Loop.Run(cmd.Context(), n); err != nil {
		return err
	}
	if err := rec.Save(out); err != nil {
		return err
	}
	fmt.Printf("recorded %d frames of %s to %s in %v\n", rec.Len(), cfg.Domain, out, time.Since(start).Round(time.Millisecond))
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("frames")
	out, _ := cmd.Flags().GetString("out")

	s, err := registry.Build(cfg, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	defer s.Loop.Close()

	if err := s.Loop.Run(cmd.Context(), n); err != nil {
		return err
	}
	frame := s.Loop.Snapshot()
	switch strings.ToLower(filepath.Ext(out)) {
	case ".svg":
		err = export.SVG(out, frame, svgScale)
	default:
		err = export.PNG(out, frame)
	}
	if err != nil {
		return err
	}
	fmt.Printf("frame %d of %s saved to %s\n", s.Loop.Frame(), cfg.Domain, out)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("frames")

	results, err := registry.Bench(cmd.Context(), cfg, backends, n)
	if err != nil {
		return err
	}

	fmt.Printf("benchmark %s, %d frames\n\n", cfg.Domain, n)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tFRAMES\tELAPSED\tSTEPS/S")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%v\t%.1f\n", r.Backend, r.Frames, r.Elapsed.Round(time.Microsecond), r.StepsSec)
	}
	return w.Flush()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var (
		series []float64
		name   string
		cfg    *config.Config
	)
	st := storage.New(dataDir)

	if runID != "" {
		meta, err := st.Load(runID)
		if err != nil {
			return err
		}
		if series, err = st.LoadSeries(runID); err != nil {
			return err
		}
		name = meta.Metric
		fmt.Printf("run %s (%s, seed %d)\n", meta.ID, meta.Domain, meta.Seed)
	} else {
		var err error
		if cfg, err = resolveConfig(cmd, args); err != nil {
			return err
		}
		n, _ := cmd.Flags().GetInt("frames")
		if series, name, err = registry.Series(cmd.Context(), cfg, n); err != nil {
			return err
		}
	}
	if len(series) < 2 {
		return errors.New("series too short to analyze")
	}

	fmt.Println(asciigraph.Plot(series, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption(name)))
	fmt.Println()

	if ps := analysis.PowerSpectrum(series); len(ps) > 2 {
		fmt.Println(asciigraph.Plot(ps[1:], asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("power spectrum (bin 1..n/2)")))
		fmt.Println()
	}

	if peak, ok := analysis.DominantPeriod(series); ok {
		fmt.Printf("dominant period: %.2f frames (bin %d, power %.4g)\n", peak.Period, peak.Bin, peak.Power)
	} else {
		fmt.Println("dominant period: none")
	}

	sum := analysis.Summarize(series)
	fmt.Printf("samples %d  min %.6g  max %.6g  mean %.6g  stddev %.6g  drift %.4g\n",
		sum.Samples, sum.Min, sum.Max, sum.Mean, sum.StdDev, sum.Drift)

	if saveRun && cfg != nil {
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(storage.RunMetadata{
			Domain:  cfg.Domain,
			Preset:  preset,
			Seed:    cfg.Seed,
			Backend: cfg.Backend,
			Frames:  len(series),
			Metric:  name,
			Summary: summaryMap(sum),
		}, series)
		if err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", id)
	}
	return nil
}

func summaryMap(s analysis.Summary) map[string]float64 {
	return map[string]float64{
		"min":    s.Min,
		"max":    s.Max,
		"mean":   s.Mean,
		"stddev": s.StdDev,
		"drift":  s.Drift,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDOMAIN\tPRESET\tSEED\tFRAMES\tMETRIC\tMEAN\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%.4g\t%s\n",
			r.ID, r.Domain, r.Preset, r.Seed, r.Frames, r.Metric, r.Summary["mean"], r.Timestamp.Format(time.DateTime))
	}
	return w.Flush()
}

// parseSweep reads key=v1,v2,... arguments.
func parseSweep(params []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(params))
	ranges := make([][]float64, 0, len(params))
	for _, p := range params {
		key, list, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("invalid --param %q, want key=v1,v2", p)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid value in --param %q: %w", p, err)
			}
			vals = append(vals, v)
		}
		names = append(names, key)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func statistic(name string, series []float64) (float64, error) {
	if len(series) == 0 {
		return 0, errors.New("empty series")
	}
	s := analysis.Summarize(series)
	switch name {
	case "final":
		return series[len(series)-1], nil
	case "mean":
		return s.Mean, nil
	case "min":
		return s.Min, nil
	case "max":
		return s.Max, nil
	case "stddev":
		return s.StdDev, nil
	case "drift":
		return math.Abs(s.Drift), nil
	}
	return 0, fmt.Errorf("unknown score %q", name)
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepArgs) == 0 {
		return errors.New("at least one --param is required")
	}
	if _, err := statistic(score, []float64{0}); err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("frames")

	names, ranges, err := parseSweep(sweepArgs)
	if err != nil {
		return err
	}
	grid, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	sign := 1.0
	if maximize {
		sign = -1
	}
	trials, best, err := grid.Search(cmd.Context(), func(ctx context.Context, params map[string]float64) (float64, error) {
		c := cfg.Clone()
		if err := c.Apply(params); err != nil {
			return 0, err
		}
		series, _, err := registry.Series(ctx, c, n)
		if err != nil {
			return 0, err
		}
		v, err := statistic(score, series)
		return sign * v, err
	}, sweepLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(score))
	for i, t := range trials {
		row := make([]string, 0, len(names)+1)
		for _, k := range names {
			row = append(row, strconv.FormatFloat(t.Params[k], 'g', -1, 64))
		}
		switch {
		case t.Err != nil:
			row = append(row, "error: "+t.Err.Error())
		case i == best:
			row = append(row, fmt.Sprintf("%.6g *", sign*t.Score))
		default:
			row = append(row, fmt.Sprintf("%.6g", sign*t.Score))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if best < 0 {
		return errors.New("every trial failed")
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("scenario %s: %s\n\n", sc.Name, sc.Description)

	results, err := automation.RunScenario(cmd.Context(), sc, registry, logger)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tDOMAIN\tFRAMES\tMETRIC\tFINAL\tMEAN\tDRIFT")
	for i, r := range results {
		final := 0.0
		if len(r.Series) > 0 {
			final = r.Series[len(r.Series)-1]
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%.6g\t%.6g\t%.4g\n", i+1, r.Domain, r.Frames, r.Metric, final, r.Summary.Mean, r.Summary.Drift)
	}
	w.Flush()
	return err
}

func printConfig(cmd *cobra.Command, args []string) error {
	domain := ""
	if len(args) > 0 {
		domain = args[0]
	}
	cfg := config.DefaultConfig(domain)
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
