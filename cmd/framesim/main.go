package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/san-kum/framesim/internal/config"
	"github.com/san-kum/framesim/internal/experiment"
	"github.com/spf13/cobra"
)

// raylib must run on the main OS thread.
func init() { runtime.LockOSThread() }

var (
	logLevel   string
	logFile    string
	dataDir    string
	configFile string
	preset     string

	// config overrides
	domainWidth  int
	domainHeight int
	viewWidth    int
	viewHeight   int
	particles    int
	dt           float64
	gravity      float64
	softening    float64
	splatRadius  float64
	density      float64
	seed         int64
	backend      string
	workers      int
	resizePolicy string
	wrap         bool
	integrator   string
	frameRate    int

	// frames and out differ in default per command and are read with
	// cmd.Flags().GetInt and GetString
	svgScale   float64
	glyph      string
	theme      string
	gifPath    string
	pick       bool
	backends   []string
	saveRun    bool
	runID      string
	sweepArgs  []string
	score      string
	maximize   bool
	sweepLimit int
)

var (
	logger   = slog.New(slog.DiscardHandler)
	registry = experiment.NewRegistry()
)

// main registers commands and flags and executes the root command. It exits
// with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "framesim",
		Short:         "frame-stepped life and n-body simulations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".framesim", "run store directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	liveCmd := &cobra.Command{
		Use:   "live [domain]",
		Short: "run in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&glyph, "glyph", "block", "cell glyph (block, braille)")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "hud theme")
	liveCmd.Flags().StringVar(&gifPath, "gif", "framesim.gif", "where the g key saves recordings")
	liveCmd.Flags().BoolVar(&pick, "pick", false, "choose a preset from a menu first")

	guiCmd := &cobra.Command{
		Use:   "gui [domain]",
		Short: "run in a window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}
	addConfigFlags(guiCmd)

	recordCmd := &cobra.Command{
		Use:   "record [domain]",
		Short: "run headless and save an animated gif",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRecord,
	}
	addConfigFlags(recordCmd)
	recordCmd.Flags().Int("frames", 120, "frames to record")
	recordCmd.Flags().String("out", "framesim.gif", "output path")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [domain]",
		Short: "run headless and save the last frame as png or svg",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	addConfigFlags(snapshotCmd)
	snapshotCmd.Flags().Int("frames", 60, "frames to run first")
	snapshotCmd.Flags().String("out", "framesim.png", "output path (.png or .svg)")
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 4, "svg pixel scale")

	benchCmd := &cobra.Command{
		Use:   "bench [domain]",
		Short: "measure steps per second on each backend",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	addConfigFlags(benchCmd)
	benchCmd.Flags().Int("frames", 50, "frames per backend")
	benchCmd.Flags().StringSliceVar(&backends, "backends", []string{"serial", "cpu"}, "backends to compare")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [domain]",
		Short: "spectrum and summary of the population or energy series",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}
	addConfigFlags(analyzeCmd)
	analyzeCmd.Flags().Int("frames", 512, "frames to sample")
	analyzeCmd.Flags().BoolVar(&saveRun, "save", false, "store the series in the run store")
	analyzeCmd.Flags().StringVar(&runID, "run", "", "analyze a stored run instead")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [domain]",
		Short: "grid search config parameters against a series statistic",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().Int("frames", 200, "frames per trial")
	sweepCmd.Flags().StringArrayVar(&sweepArgs, "param", nil, "key=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&score, "score", "final", "statistic: final, mean, min, max, stddev, drift")
	sweepCmd.Flags().BoolVar(&maximize, "maximize", false, "prefer the largest score")
	sweepCmd.Flags().IntVar(&sweepLimit, "parallel", 2, "trials run at once")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario of headless steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [domain]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domains := registry.ListDomains()
			if len(args) > 0 {
				domains = args
			}
			for _, d := range domains {
				presets := config.ListPresets(d)
				if len(presets) == 0 {
					fmt.Printf("no presets for domain: %s\n", d)
					continue
				}
				fmt.Printf("presets for %s:\n", d)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [domain]",
		Short: "print the default config as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printConfig,
	}

	rootCmd.AddCommand(liveCmd, guiCmd, recordCmd, snapshotCmd, benchCmd, analyzeCmd, runsCmd, sweepCmd, scenarioCmd, presetsCmd, configCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&domainWidth, "width", config.DefaultLifeWidth, "life grid width")
	f.IntVar(&domainHeight, "height", config.DefaultLifeHeight, "life grid height")
	f.IntVar(&viewWidth, "view-width", config.DefaultLifeWidth, "surface width")
	f.IntVar(&viewHeight, "view-height", config.DefaultLifeHeight, "surface height")
	f.IntVar(&particles, "particles", config.DefaultParticles, "n-body particle count")
	f.Float64Var(&dt, "dt", config.DefaultDt, "n-body timestep")
	f.Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	f.Float64Var(&softening, "softening", config.DefaultSoftening, "force softening length")
	f.Float64Var(&splatRadius, "radius", config.DefaultSplatRadius, "splat radius as a fraction of the width")
	f.Float64Var(&density, "density", config.DefaultDensity, "initial live cell fraction")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.StringVar(&backend, "backend", "auto", "compute backend (auto, cpu, serial)")
	f.IntVar(&workers, "workers", 0, "cpu backend workers (0 = all cores)")
	f.StringVar(&resizePolicy, "resize", "", "resize policy (reseed, preserve, surface)")
	f.BoolVar(&wrap, "wrap", false, "wrap particles into the unit square")
	f.StringVar(&integrator, "integrator", "euler", "n-body integrator (euler, verlet)")
	f.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
}

func setupLogger() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	return nil
}

// resolveConfig builds the config for a command: the config file or the
// domain defaults, replaced by a preset when one is named, then every flag
// the user set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	domain := ""
	if len(args) > 0 {
		domain = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if domain != "" && loaded.Domain != domain {
			return nil, fmt.Errorf("config file is for %s, not %s", loaded.Domain, domain)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig(domain)
	}

	if preset != "" {
		p := config.GetPreset(cfg.Domain, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Domain))
		}
		cfg = p
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("width") {
		cfg.DomainWidth = domainWidth
	}
	if f.Changed("height") {
		cfg.DomainHeight = domainHeight
	}
	if f.Changed("view-width") {
		cfg.ViewWidth = viewWidth
	}
	if f.Changed("view-height") {
		cfg.ViewHeight = viewHeight
	}
	if f.Changed("particles") {
		cfg.ParticleCount = particles
	}
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("g") {
		cfg.G = gravity
	}
	if f.Changed("softening") {
		cfg.Softening = softening
	}
	if f.Changed("radius") {
		cfg.SplatRadius = splatRadius
	}
	if f.Changed("density") {
		cfg.InitialDensity = density
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("backend") {
		cfg.Backend = backend
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}
	if f.Changed("resize") {
		cfg.ResizePolicy = resizePolicy
	}
	if f.Changed("wrap") {
		cfg.WrapParticles = wrap
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("fps") {
		cfg.FPS = frameRate
	}
}
