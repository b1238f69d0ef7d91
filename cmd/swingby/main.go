package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/san-kum/swingby/internal/analysis"
	"github.com/san-kum/swingby/internal/config"
	"github.com/san-kum/swingby/internal/experiment"
	"github.com/san-kum/swingby/internal/export"
	"github.com/san-kum/swingby/internal/metrics"
	"github.com/san-kum/swingby/internal/session"
	"github.com/san-kum/swingby/internal/trail"
	"github.com/san-kum/swingby/internal/viz"
)

const envPrefix = "SWINGBY"

var (
	logLevel string
	logFile  string
	// compare
	compareBy string
	// run / export
	outPath string
	format  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "swingby",
		Short:        "two-body orbit simulator",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLog, err := tuiLogger()
			if err != nil {
				return err
			}
			defer closeLog()
			return viz.RunInteractive(logger)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, none)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file for the terminal views")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd.Flags())
	runCmd.Flags().StringVar(&outPath, "csv", "", "also write the trail as CSV to this path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd.Flags())

	compareCmd := &cobra.Command{
		Use:   "compare [name...]",
		Short: "compare integrators or trail policies on the same orbit",
		RunE:  runCompare,
	}
	addSimFlags(compareCmd.Flags())
	compareCmd.Flags().StringVar(&compareBy, "by", "integrator", "what to vary: integrator or policy")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "run headless and export the trail",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	addSimFlags(exportCmd.Flags())
	exportCmd.Flags().StringVar(&format, "format", "csv", "csv, json or svg")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output path, - for stdout")

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, presetsCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addSimFlags registers the overrides shared by every simulating command.
// Each one can also be set through the environment, e.g. SWINGBY_DT.
func addSimFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file path (yaml)")
	fs.String("preset", "", "use preset configuration")
	fs.Float64("dt", config.DefaultDt, "timestep (s)")
	fs.Int("speed", config.DefaultSpeed, "integration steps per tick")
	fs.Float64("duration", config.DefaultDuration, "simulated time for headless runs (s)")
	fs.String("integrator", "rk4", "integrator (euler, rk4, verlet)")
	fs.String("policy", trail.PolicyTwoTier, "trail policy ("+strings.Join(trail.Policies(), ", ")+")")
	fs.Float64("x", config.DefaultX, "initial x (1000 km)")
	fs.Float64("y", 0, "initial y (1000 km)")
	fs.Float64("vx", 0, "initial vx (km/s)")
	fs.Float64("vy", config.DefaultVY, "initial vy (km/s)")
}

func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}

// resolveConfig layers the configuration: a config file or preset (or the
// defaults), then any flag or environment override.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	v, err := newViper(cmd)
	if err != nil {
		return nil, "", err
	}

	var cfg *config.Config
	name := "default"
	switch {
	case v.GetString("config") != "":
		path := v.GetString("config")
		if cfg, err = config.Load(path); err != nil {
			return nil, "", err
		}
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	case v.GetString("preset") != "":
		name = v.GetString("preset")
		if cfg = config.GetPreset(name); cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	default:
		cfg = config.DefaultConfig()
	}

	if v.IsSet("dt") {
		cfg.Dt = v.GetFloat64("dt")
	}
	if v.IsSet("speed") {
		cfg.Speed = v.GetInt("speed")
	}
	if v.IsSet("duration") {
		cfg.Duration = v.GetFloat64("duration")
	}
	if v.IsSet("integrator") {
		cfg.Integrator = v.GetString("integrator")
	}
	if v.IsSet("policy") {
		cfg.Trail.Policy = v.GetString("policy")
	}
	if v.IsSet("x") {
		cfg.InitState.X = v.GetFloat64("x")
	}
	if v.IsSet("y") {
		cfg.InitState.Y = v.GetFloat64("y")
	}
	if v.IsSet("vx") {
		cfg.InitState.VX = v.GetFloat64("vx")
	}
	if v.IsSet("vy") {
		cfg.InitState.VY = v.GetFloat64("vy")
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func levelOption(name string) (level.Option, error) {
	switch strings.ToLower(name) {
	case "debug":
		return level.AllowDebug(), nil
	case "info":
		return level.AllowInfo(), nil
	case "warn", "warning":
		return level.AllowWarn(), nil
	case "error":
		return level.AllowError(), nil
	case "none":
		return level.AllowNone(), nil
	}
	return nil, fmt.Errorf("unknown log level: %s", name)
}

func newLogger(w io.Writer) (log.Logger, error) {
	opt, err := levelOption(logLevel)
	if err != nil {
		return nil, err
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	return level.NewFilter(logger, opt), nil
}

// tuiLogger keeps log lines off the terminal the views draw on: they go to
// --log-file when given and nowhere otherwise.
func tuiLogger() (log.Logger, func(), error) {
	if logFile == "" {
		return log.NewNopLogger(), func() {}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

// headless runs cfg to its duration with the standard metrics attached. A
// failed run is destroyed before it is returned; callers own a successful one.
func headless(ctx context.Context, cfg *config.Config, logger log.Logger) (*session.Session, time.Duration, error) {
	s, err := session.New(cfg.Session(), session.WithLogger(logger))
	if err != nil {
		return nil, 0, err
	}
	for _, m := range metrics.Standard(s.Body()) {
		s.AddMetric(m)
	}
	s.AddMetric(analysis.NewPeriodEstimate(cfg.Dt, 4096))
	start := time.Now()
	if err := s.RunFor(ctx, cfg.Ticks()); err != nil {
		s.Destroy()
		return s, time.Since(start), err
	}
	return s, time.Since(start), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s (%s, %s trail)...\n", name, cfg.Integrator, cfg.Trail.Policy)
	s, elapsed, err := headless(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Destroy()

	st := s.State()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("session id: %s\n", s.ID())
	fmt.Printf("steps: %d (t = %.1f s)\n", s.Steps(), st.T)
	fmt.Printf("final: r = %.3f km, v = %.4f km/s\n", st.Radius()/1e3, st.Speed()/1e3)
	fmt.Printf("trail: %d points retained\n", len(s.Frame().Trail))
	if body := s.Body(); body.Bound(st) {
		fmt.Printf("kepler period: %.1f s\n", body.Period(body.SemiMajorAxis(st)))
	}

	fmt.Println("\nmetrics:")
	values := s.Metrics()
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		fmt.Printf("  %s: %.6g\n", k, values[k])
	}

	if radii := radiiKm(s.Rows()); len(radii) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(radii,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("radius (km) over the retained trail"),
		))
	}

	if outPath != "" {
		if err := export.ToFile(outPath, func(w io.Writer) error { return export.WriteCSV(w, s.Rows()) }); err != nil {
			return err
		}
		fmt.Printf("\ntrail written to %s\n", outPath)
	}
	return nil
}

func radiiKm(rows []trail.Point) []float64 {
	out := make([]float64, len(rows))
	for i, p := range rows {
		out[i] = p.State().Radius() / 1e3
	}
	return out
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := tuiLogger()
	if err != nil {
		return err
	}
	defer closeLog()
	return viz.RunLive(cfg, name, logger)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}

	var variants []experiment.Variant
	switch compareBy {
	case "integrator":
		variants = experiment.ByIntegrator(cfg.Session(), args)
	case "policy":
		variants = experiment.ByPolicy(cfg.Session(), args)
	default:
		return fmt.Errorf("unknown comparison: %s (use integrator or policy)", compareBy)
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing %ss for %s (dt=%.4g s, duration=%.1f s)\n\n", compareBy, name, cfg.Dt, cfg.Duration)
	results, err := experiment.Compare(ctx, variants, cfg.Ticks(), logger)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tfinal_r_km\tenergy_drift\tmomentum_drift\tretained\ttime_ms")
	series := make([][]float64, 0, len(results))
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%.3f\t%.2e\t%.2e\t%d\t%.2f\n",
			r.Name, r.Final.Radius()/1e3, r.Metrics["energy_drift"], r.Metrics["momentum_drift"],
			r.Retained, float64(r.Elapsed.Microseconds())/1000)
		km := make([]float64, len(r.Radii))
		for i, v := range r.Radii {
			km[i] = v / 1e3
		}
		if len(km) > 1 {
			series = append(series, km)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(series) > 0 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("radius (km) per variant"),
		))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "preset\tx\tvy\tdt\tspeed\tpolicy")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(tw, "%s\t%.3f\t%.4f\t%g\t%d\t%s\n", name, p.InitState.X, p.InitState.VY, p.Dt, p.Speed, p.Trail.Policy)
	}
	return tw.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	s, _, err := headless(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Destroy()

	var write func(io.Writer) error
	switch format {
	case "csv":
		write = func(w io.Writer) error { return export.WriteCSV(w, s.Rows()) }
	case "json":
		write = func(w io.Writer) error { return export.WriteJSON(w, export.Collect(s)) }
	case "svg":
		opts := export.DefaultSVGOptions()
		opts.BodyRadius = s.Body().Radius
		layers := s.Frame().Layers
		if cfg.Trail.Policy == trail.PolicyPrecomputed {
			layers = []trail.Layer{{Name: "horizon", Opacity: 0.8, Points: s.Rows()}}
		}
		write = func(w io.Writer) error { return export.WriteSVG(w, layers, opts) }
	default:
		return errors.New("unknown format: " + format + " (use csv, json or svg)")
	}

	if outPath == "-" {
		return write(os.Stdout)
	}
	return export.ToFile(outPath, write)
}
