package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/grainsim/internal/automation"
	"github.com/san-kum/grainsim/internal/codec"
	"github.com/san-kum/grainsim/internal/config"
	"github.com/san-kum/grainsim/internal/engine"
	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/metrics"
	"github.com/san-kum/grainsim/internal/placement"
	"github.com/san-kum/grainsim/internal/session"
	"github.com/san-kum/grainsim/internal/statics"
	"github.com/san-kum/grainsim/internal/storage"
	"github.com/san-kum/grainsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string

	width       int
	height      int
	mode        string
	kernel      string
	probability int
	seed        int64
	steps       int
	seeds       int
	fill        int
	nuclei      int
	nucleation  string
	increment   string

	column    string
	format    string
	outFile   string
	scale     float64
	frameRate int
	theme     string

	runs        int
	sweepParam  string
	sweepValues []int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "grainsim",
		Short:        "2d grain growth and recrystallization simulator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".grainsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its statistics",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot per-step statistics of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "statistic to plot (default all)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and statistics as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render the final grid of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&format, "format", "png", "png, bmp, svg, energy or text")
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	renderCmd.Flags().Float64Var(&scale, "scale", 4, "svg pixels per cell")

	importCmd := &cobra.Command{
		Use:   "import [file]",
		Short: "continue a simulation from a png, bmp or json grid",
		Args:  cobra.ExactArgs(1),
		RunE:  importGrid,
	}
	addSimFlags(importCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 20, "frame rate")
	liveCmd.Flags().StringVar(&theme, "theme", "metal", fmt.Sprintf("color theme %v", viz.ThemeNames()))

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark every computation mode",
		RunE:  benchModes,
	}
	benchCmd.Flags().IntVar(&steps, "steps", 10, "steps per measurement")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "replay a yaml scenario of edits and batches",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a run over consecutive seeds in parallel",
		RunE:  runEnsemble,
	}
	addSimFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one config value and compare final statistics",
		RunE:  runSweep,
	}
	addSimFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "probability", fmt.Sprintf("parameter %v", automation.SweepParams()))
	sweepCmd.Flags().IntSliceVar(&sweepValues, "values", []int{0, 25, 50, 75, 100}, "values to sweep")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, renderCmd, importCmd, presetsCmd, liveCmd, benchCmd, scenarioCmd, ensembleCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "grid width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "grid height")
	cmd.Flags().StringVar(&mode, "mode", string(engine.CA), "CA, MONTE_CARLO or SRX_MONTE_CARLO")
	cmd.Flags().StringVar(&kernel, "kernel", "MOORE", "MOORE, NEAREST_MOORE, FURTHER_MOORE or COMPLEX_MOORE")
	cmd.Flags().IntVar(&probability, "probability", config.DefaultProbability, "complex moore fallback probability")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps to run")
	cmd.Flags().IntVar(&seeds, "seeds", config.DefaultSeeds, "initial grains")
	cmd.Flags().IntVar(&fill, "fill", config.DefaultFill, "random fill pool size for monte carlo modes")
	cmd.Flags().IntVar(&nuclei, "nuclei", config.DefaultNuclei, "nuclei per nucleation")
	cmd.Flags().StringVar(&nucleation, "nucleation", string(engine.Everywhere), "EVERYWHERE or BORDERS")
	cmd.Flags().StringVar(&increment, "increment", string(engine.Const), "CONST, INCREASING or ONCE")
}

// buildConfig layers a preset, a config file and explicitly set flags, in
// that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("mode") {
		cfg.Mode = strings.ToUpper(mode)
	}
	if flags.Changed("kernel") {
		cfg.Kernel = strings.ToUpper(kernel)
	}
	if flags.Changed("probability") {
		cfg.Probability = probability
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("seeds") {
		cfg.Seeds = seeds
	}
	if flags.Changed("fill") {
		cfg.Fill = fill
	}
	if flags.Changed("nuclei") {
		cfg.Nucleation.Amount = nuclei
	}
	if flags.Changed("nucleation") {
		cfg.Nucleation.Mode = strings.ToUpper(nucleation)
	}
	if flags.Changed("increment") {
		cfg.Nucleation.Increment = strings.ToUpper(increment)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// simulate runs cfg.Steps steps on a prepared session and stores the run.
func simulate(s *session.Session, cfg *config.Config) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	rec := metrics.NewRecorder(metrics.Default(s.Kernel(), s.Statics())...)
	s.AddObserver(rec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s %s on %dx%d...\n", s.Mode(), s.Kernel(), s.View().W, s.View().H)
	start := time.Now()

	done, err := s.Run(ctx, cfg.Steps)
	if err != nil && ctx.Err() == nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, rec, s.View())
	if err != nil {
		return err
	}

	fmt.Printf("completed %d steps in %v\n", done, elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	final := rec.Final()
	for _, name := range rec.Header() {
		fmt.Printf("  %s: %.6f\n", name, final[name])
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := session.New(cfg, newLogger())
	if err != nil {
		return err
	}
	if err := prepare(s, cfg); err != nil {
		return err
	}
	return simulate(s, cfg)
}

func importGrid(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	g, err := readGrid(args[0])
	if err != nil {
		return err
	}
	cfg.Width, cfg.Height = g.W, g.H

	s, err := session.New(cfg, newLogger())
	if err != nil {
		return err
	}
	s.Load(g)
	return simulate(s, cfg)
}

func readGrid(path string) (*lattice.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return codec.DecodeText(f)
	}
	g, _, err := codec.DecodeImage(f)
	return g, err
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
	fmt.Fprintln(w, "ID\tMODE\tKERNEL\tTIME\tSIZE\tSTEPS\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%d\n",
			run.ID,
			run.Mode,
			run.Kernel,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width, run.Height,
			run.Steps,
			run.Seed,
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

	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}
	if len(stats.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s %s\n", meta.Mode, meta.Kernel)
	fmt.Printf("steps: %d\n\n", len(stats.Rows))

	names := stats.Header
	if column != "" {
		names = []string{column}
	}

	for _, name := range names {
		data, ok := stats.Column(name)
		if !ok {
			return fmt.Errorf("unknown column %q (available: %v)", name, stats.Header)
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func renderRun(cmd *cobra.Command, args []string) error {
	g, err := storage.New(dataDir).LoadGrid(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch strings.ToLower(format) {
	case "png":
		return codec.EncodePNG(w, g)
	case "bmp":
		return codec.EncodeBMP(w, g)
	case "svg":
		return codec.EncodeSVG(w, g, scale)
	case "energy":
		return png.Encode(w, codec.EnergyImage(g))
	case "text", "json":
		return codec.EncodeText(w, g)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODE\tKERNEL\tSIZE\tSTEPS\tNUCLEATION")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%s/%s\n",
			name, p.Mode, p.Kernel, p.Width, p.Height, p.Steps,
			p.Nucleation.Mode, p.Nucleation.Increment)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	// the viewer owns the terminal
	s, err := session.New(cfg, nil)
	if err != nil {
		return err
	}

	setup := func(s *session.Session) error { return prepare(s, cfg) }
	if err := setup(s); err != nil {
		return err
	}

	shape, err := placement.ParseShape(cfg.Inclusion.Shape)
	if err != nil {
		shape = placement.Square
	}
	cm, _ := statics.ParseClearMode(cfg.ClearMode)

	opts := viz.Options{
		Seeds:           max(cfg.Seeds, 1),
		Fill:            max(cfg.Fill, 1),
		InclusionShape:  shape,
		InclusionSize:   max(cfg.Inclusion.Size, 1),
		InclusionCount:  max(cfg.Inclusion.Count, 1),
		BorderThickness: max(cfg.BorderThickness, 1),
		ClearMode:       cm,
		Limit:           cfg.Steps,
		Tick:            time.Second / time.Duration(max(frameRate, 1)),
	}
	viz.SetTheme(theme)
	return viz.Run(s, setup, opts)
}

func benchModes(cmd *cobra.Command, args []string) error {
	sizes := []int{50, 100, 200}

	fmt.Printf("benchmarking %d steps per run\n\n", steps)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tKERNEL\tSIZE\tTIME\tCELLS/SEC")

	for _, m := range engine.Modes() {
		for _, size := range sizes {
			cfg := config.DefaultConfig()
			cfg.Width, cfg.Height = size, size
			cfg.Mode = string(m)
			cfg.Seed = 42

			s, err := session.New(cfg, nil)
			if err != nil {
				return err
			}
			if err := prepare(s, cfg); err != nil {
				return err
			}

			start := time.Now()
			if _, err := s.Run(context.Background(), steps); err != nil {
				return err
			}
			elapsed := time.Since(start)

			cellsPerSec := float64(size*size*steps) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%s\t%dx%d\t%v\t%.0f\n",
				m, cfg.Kernel, size, size, elapsed, cellsPerSec)
		}
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("scenario: %s (%d actions)\n", scenario.Name, len(scenario.Actions))
	s, err := automation.RunScenario(ctx, scenario, newLogger())
	if s != nil {
		g := s.View()
		fmt.Printf("steps: %d\n", s.StepCount())
		fmt.Printf("grains: %d\n", metrics.GrainIDs(g, s.Statics()))
		fmt.Printf("filled: %.3f\n", metrics.FilledFraction(g))
		fmt.Printf("recrystallized: %.3f\n", metrics.FrozenFraction(g))
	}
	return err
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("running %d %s runs from seed %d...\n", runs, cfg.Mode, cfg.Seed)
	start := time.Now()
	results, err := automation.RunEnsemble(context.Background(), cfg, runs, prepare)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	names, summary := automation.Summarize(results)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, name := range names {
		sm := summary[name]
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", name, sm.Mean, sm.Std, sm.Min, sm.Max)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(context.Background(), cfg, automation.Sweep{Param: sweepParam, Values: sweepValues}, prepare)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tGRAINS\tENERGY\tFILLED\tRECRYSTALLIZED\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.0f\t%.0f\t%.3f\t%.3f\n",
			r.Value, r.Metrics["grains"], r.Metrics["energy"], r.Metrics["filled"], r.Metrics["recrystallized"])
	}
	return w.Flush()
}
