package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/contrastanim/internal/automation"
	"github.com/san-kum/contrastanim/internal/config"
	"github.com/san-kum/contrastanim/internal/export"
	"github.com/san-kum/contrastanim/internal/render"
	"github.com/san-kum/contrastanim/internal/storage"
	"github.com/san-kum/contrastanim/internal/trace"
	"github.com/san-kum/contrastanim/internal/tui"
	"github.com/san-kum/contrastanim/internal/upload"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logFile    string
	preset     string

	// animation
	speed     float64
	value     float64
	fps       int
	autostart bool

	// rendering
	mode     string
	theme    string
	lensSize int
	zoom     float64
	workers  int

	// trace
	durationMs float64
	jitter     float64
	seed       int64
	events     []string
	csvOut     string
	svgOut     string
	live       bool
	save       bool

	// render
	contrast float64
	cols     int
	rows     int

	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	writeConfig string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "contrastanim [images...]",
		Short:         "animate a contrast filter over images in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runView,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".contrastanim", "directory for saved traces")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file for the viewer")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "animation preset")
	addViewFlags(rootCmd)

	viewCmd := &cobra.Command{
		Use:   "view [images...]",
		Short: "open the interactive viewer",
		RunE:  runView,
	}
	addViewFlags(viewCmd)

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "run the animation headless and plot the value",
		Args:  cobra.NoArgs,
		RunE:  runTrace,
	}
	addAnimationFlags(traceCmd)
	traceCmd.Flags().Float64Var(&durationMs, "time", 5000, "duration in ms")
	traceCmd.Flags().Float64Var(&jitter, "jitter", 0, "max random extra ms per frame")
	traceCmd.Flags().Int64Var(&seed, "seed", 1, "jitter random seed")
	traceCmd.Flags().StringArrayVar(&events, "event", nil, "scheduled intent, e.g. pause@1500 or speed=2.5@3000")
	traceCmd.Flags().StringVar(&csvOut, "csv", "", "write samples as CSV (- for stdout)")
	traceCmd.Flags().StringVar(&svgOut, "svg", "", "write the value curve as SVG")
	traceCmd.Flags().BoolVar(&live, "live", false, "use wall-clock frames instead of a virtual clock")
	traceCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of traces from yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&save, "save", false, "save every step to the data directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one trace per value of a parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addAnimationFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "speed", "parameter to sweep (speed, jitter, frame_rate)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 5, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of runs")
	sweepCmd.Flags().Float64Var(&durationMs, "time", 5000, "duration of each run in ms")
	sweepCmd.Flags().Float64Var(&jitter, "jitter", 0, "max random extra ms per frame")
	sweepCmd.Flags().Int64Var(&seed, "seed", 1, "jitter random seed")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = all cores)")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved traces",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [image]",
		Short: "print one frame of an image at a given contrast",
		Args:  cobra.ExactArgs(1),
		RunE:  renderImage,
	}
	renderCmd.Flags().Float64Var(&contrast, "contrast", 100, "contrast percent (0-200)")
	renderCmd.Flags().IntVar(&cols, "cols", 80, "output width in cells")
	renderCmd.Flags().IntVar(&rows, "rows", 24, "output height in cells")
	renderCmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "blocks or braille")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list animation presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSPEED\tINITIAL")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.1fx\t%.0f\n", name, p.Speed, p.InitialValue)
			}
			return w.Flush()
		},
	}

	themesCmd := &cobra.Command{
		Use:   "themes",
		Short: "list viewer themes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range tui.ThemeNames() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  showConfig,
	}
	addViewFlags(configCmd)
	configCmd.Flags().StringVar(&writeConfig, "write", "", "also save the configuration to this path")

	rootCmd.AddCommand(viewCmd, traceCmd, scenarioCmd, sweepCmd, runsCmd, plotCmd, renderCmd, presetsCmd, themesCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addAnimationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "animation speed (0.1-5)")
	cmd.Flags().Float64Var(&value, "value", 0, "initial value (-100..100)")
	cmd.Flags().IntVar(&fps, "fps", config.DefaultRefreshRate, "display refresh rate")
}

func addViewFlags(cmd *cobra.Command) {
	addAnimationFlags(cmd)
	cmd.Flags().BoolVar(&autostart, "autostart", false, "start animating once images load")
	cmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "blocks or braille")
	cmd.Flags().StringVar(&theme, "theme", "minimal", "color theme")
	cmd.Flags().IntVar(&lensSize, "lens", config.DefaultLensSize, "magnifier size in pixels")
	cmd.Flags().Float64Var(&zoom, "zoom", config.DefaultZoom, "magnifier zoom")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel image decodes (0 = all cores)")
}

// loadConfig builds the effective configuration: defaults, then the config
// file, then the preset, then any flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" && !cfg.ApplyPreset(preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Animation.Speed = speed
	}
	if flags.Changed("value") {
		cfg.Animation.InitialValue = value
	}
	if flags.Changed("fps") {
		cfg.Animation.RefreshRate = fps
	}
	if flags.Changed("autostart") {
		cfg.Animation.Autostart = autostart
	}
	if flags.Changed("mode") {
		cfg.Render.Mode = mode
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = theme
	}
	if flags.Changed("lens") {
		cfg.Render.LensSize = lensSize
	}
	if flags.Changed("zoom") {
		cfg.Render.Zoom = zoom
	}
	if flags.Changed("workers") {
		cfg.Upload.Workers = workers
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}

	cfg.Validate()
	return cfg, nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The viewer owns the terminal, so logs go to a file or nowhere.
	out := io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := newLogger(out, cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("viewer: starting", "images", len(args), "mode", cfg.Render.Mode, "speed", cfg.Animation.Speed)
	err = tui.Run(ctx, tui.Options{Config: cfg, Paths: args, Logger: logger})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runTrace(cmd *cobra.Command, args []string) error {
	if !(durationMs > 0) {
		return fmt.Errorf("--time must be positive, got %g", durationMs)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Log.Level)

	opts := trace.Options{
		Duration:      durationMs,
		FrameInterval: 1000.0 / float64(cfg.Animation.RefreshRate),
		Jitter:        jitter,
		Seed:          seed,
		Speed:         cfg.Animation.Speed,
		InitialValue:  cfg.Animation.InitialValue,
		MinInterval:   cfg.Animation.MinInterval,
	}
	for _, s := range events {
		ev, err := trace.ParseEvent(s)
		if err != nil {
			return err
		}
		opts.Events = append(opts.Events, ev)
	}

	var samples []trace.Sample
	runMode := "virtual"
	if live {
		runMode = "live"
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		samples = trace.Live(ctx, opts, cfg.Animation.RefreshRate, logger)
	} else {
		samples = trace.Run(opts, logger)
	}
	if len(samples) == 0 {
		return fmt.Errorf("trace produced no frames")
	}

	if csvOut == "-" {
		return trace.WriteCSV(os.Stdout, samples)
	}

	st := trace.Summarize(samples)
	if len(samples) > 1 {
		fmt.Println(asciigraph.Plot(trace.Values(samples),
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.LowerBound(-100),
			asciigraph.UpperBound(100),
			asciigraph.Caption(fmt.Sprintf("value over %.0fms (%s clock)", durationMs, runMode)),
		))
	}
	fmt.Printf("\nframes %d  steps %d  flips %d  min %.1f  max %.1f\n", st.Frames, st.Steps, st.Flips, st.Min, st.Max)

	if csvOut != "" {
		if err := writeTo(csvOut, func(w io.Writer) error { return trace.WriteCSV(w, samples) }); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		fmt.Printf("samples written to %s\n", csvOut)
	}
	if svgOut != "" {
		svg := export.TraceSVG(samples, 800, 300, "#00ff88")
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		fmt.Printf("plot written to %s\n", svgOut)
	}
	if save {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		id, err := store.Save(runMode, opts, samples)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		fmt.Printf("saved as %s\n", id)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Log.Level)

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	if sc.Name != "" {
		fmt.Printf("scenario %s: %s\n\n", sc.Name, sc.Description)
	}

	results, err := automation.RunScenario(cmd.Context(), sc, logger)
	if err != nil {
		return err
	}

	var store *storage.Store
	if save {
		store = storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tFRAMES\tSTEPS\tFLIPS\tMIN\tMAX\tSAVED")
	for _, r := range results {
		id := "-"
		if store != nil {
			if id, err = store.Save("virtual", r.Options, r.Samples); err != nil {
				return fmt.Errorf("save %s: %w", r.Name, err)
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1f\t%.1f\t%s\n",
			r.Name, r.Stats.Frames, r.Stats.Steps, r.Stats.Flips, r.Stats.Min, r.Stats.Max, id)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	if !(durationMs > 0) {
		return fmt.Errorf("--time must be positive, got %g", durationMs)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.Log.Level)

	sweep := &automation.Sweep{
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Base: trace.Options{
			Duration:      durationMs,
			FrameInterval: 1000.0 / float64(cfg.Animation.RefreshRate),
			Jitter:        jitter,
			Seed:          seed,
			Speed:         cfg.Animation.Speed,
			InitialValue:  cfg.Animation.InitialValue,
			MinInterval:   cfg.Animation.MinInterval,
		},
	}
	results, err := automation.RunSweep(cmd.Context(), sweep, cfg.Upload.Workers, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tFLIPS\tFINAL\n", sweepParam)
	flips := make([]float64, len(results))
	for i, r := range results {
		flips[i] = float64(r.Stats.Flips)
		fmt.Fprintf(w, "%.3f\t%d\t%d\t%.2f\n", r.ParamValue, r.Stats.Steps, r.Stats.Flips, r.Final)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(flips) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(flips,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("flips per run vs %s", sweepParam)),
		))
	}
	return nil
}

func writeTo(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved traces")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tDURATION\tSPEED\tSTEPS\tFLIPS\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.0fms\t%.1fx\t%d\t%d\t%s\n",
			r.ID, r.Mode, r.Duration, r.Speed, r.Stats.Steps, r.Stats.Flips,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return fmt.Errorf("load run: %w", err)
	}
	_, values, err := store.LoadValues(args[0])
	if err != nil {
		return fmt.Errorf("load samples: %w", err)
	}
	if len(values) < 2 {
		return fmt.Errorf("run %s has too few samples to plot", meta.ID)
	}

	fmt.Println(asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.LowerBound(-100),
		asciigraph.UpperBound(100),
		asciigraph.Caption(fmt.Sprintf("%s  speed %.1fx  %s", meta.ID, meta.Speed, meta.Mode)),
	))
	for _, ev := range meta.Events {
		fmt.Printf("  event %s\n", ev)
	}
	return nil
}

func renderImage(cmd *cobra.Command, args []string) error {
	m, err := render.ParseMode(mode)
	if err != nil {
		return err
	}
	files, err := upload.FromPaths(args)
	if err != nil {
		return err
	}
	files, err = upload.Filter(files)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	logger := newLogger(os.Stderr, config.DefaultLogLevel)
	images, err := upload.NewDecoder(1, logger).Decode(cmd.Context(), files)
	if err != nil {
		return err
	}

	fmt.Println(render.Frame(images[0].Pixels, cols, rows, m, contrast))
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Print(string(data))

	if writeConfig != "" {
		if err := config.Save(writeConfig, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Fprintf(os.Stderr, "saved to %s\n", writeConfig)
	}
	return nil
}
