// Command kickprofile computes the velocity kicks along a model stream for a
// list of impact parameters and writes them as CSV, PNG and HTML charts plus
// a JSON summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/streamkick/internal/config"
	"github.com/banshee-data/streamkick/internal/impulse"
	"github.com/banshee-data/streamkick/internal/monitoring"
	"github.com/banshee-data/streamkick/internal/report"
	"github.com/banshee-data/streamkick/internal/sweep"
	"github.com/banshee-data/streamkick/internal/timeutil"
	"github.com/banshee-data/streamkick/internal/units"
	"github.com/banshee-data/streamkick/internal/version"
)

// Config holds the parsed command line.
type Config struct {
	Params     sweep.Params
	ConfigPath string
	OutDir     string
	Outputs    report.Options
	Quiet      bool
	Version    bool
}

func parseFlags(args []string, stderr io.Writer) (Config, error) {
	def := sweep.DefaultParams()
	cfg := Config{Params: def}

	fs := flag.NewFlagSet("kickprofile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Params.Estimator, "estimator", def.Estimator, "Kick estimator: "+strings.Join(sweep.Estimators, ", "))
	fs.IntVar(&cfg.Params.N, "n", def.N, "Number of stars along the stream")
	fs.Float64Var(&cfg.Params.RO, "ro", def.RO, "Distance unit (kpc)")
	fs.Float64Var(&cfg.Params.VO, "vo", def.VO, "Velocity unit (km/s)")
	fs.Float64Var(&cfg.Params.MassMsun, "mass", def.MassMsun, "Perturber mass (Msun)")
	fs.Float64Var(&cfg.Params.RsKpc, "rs", def.RsKpc, "Perturber scale radius (kpc)")
	impacts := fs.String("b", "0,0.3125,0.625,1.25", "Comma-separated impact parameters (kpc)")
	w := fs.String("w", "0,132,176", "Perturber velocity x,y,z in the stream frame (km/s)")
	fs.Float64Var(&cfg.Params.StreamRKpc, "stream-r", def.StreamRKpc, "Stream radius (kpc)")
	fs.Float64Var(&cfg.Params.StreamVKms, "stream-v", def.StreamVKms, "Stream speed (km/s)")
	fs.StringVar(&cfg.Params.Units, "units", def.Units, "Output speed units: "+units.GetValidUnitsString())
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to a numerics JSON config (optional)")
	fs.StringVar(&cfg.OutDir, "out", ".", "Output directory")
	fs.StringVar(&cfg.Outputs.Label, "label", "", "Output file label (defaults to the estimator name)")
	fs.BoolVar(&cfg.Outputs.CSV, "csv", true, "Write the kicks as CSV")
	fs.BoolVar(&cfg.Outputs.PNG, "png", false, "Write a PNG plot of |dv|")
	fs.BoolVar(&cfg.Outputs.HTML, "html", false, "Write an interactive HTML chart")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress progress logging")
	fs.BoolVar(&cfg.Version, "version", false, "Print version information and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	var err error
	if cfg.Params.ImpactKpc, err = sweep.ParseCSVFloat64s(*impacts); err != nil {
		return cfg, fmt.Errorf("-b: %w", err)
	}
	if cfg.Params.WKms, err = sweep.ParseVec3(*w); err != nil {
		return cfg, fmt.Errorf("-w: %w", err)
	}
	return cfg, nil
}

func estimatorConfig(path string) (impulse.Config, error) {
	if path == "" {
		return impulse.DefaultConfig(), nil
	}
	nc, err := config.LoadNumericsConfig(path)
	if err != nil {
		return impulse.Config{}, err
	}
	return impulse.ConfigFromNumerics(nc), nil
}

func run(ctx context.Context, cfg Config, clock timeutil.Clock, stdout io.Writer) error {
	if cfg.Version {
		fmt.Fprintln(stdout, version.String("kickprofile"))
		return nil
	}
	if err := cfg.Params.Validate(); err != nil {
		return err
	}
	ecfg, err := estimatorConfig(cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Quiet {
		monitoring.SetLogger(nil)
	}

	start := clock.Now()
	res, err := sweep.Run(ctx, impulse.NewEstimator(ecfg), cfg.Params)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	elapsed := clock.Since(start)

	out := cfg.Outputs
	out.Clock = clock
	files, sum, err := report.WriteAll(cfg.OutDir, res, out)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "run %s: %s, %d stars, %d impact parameters in %s\n", sum.RunID, sum.Estimator, sum.Stars, len(sum.Profiles), elapsed)
	for _, p := range sum.Profiles {
		fmt.Fprintf(stdout, "  b=%-8g max|dv|=%-12.6g %s at phi=%.4f\n", p.BKpc, p.DV.MaxAbs, sum.Units, p.PeakPhi)
	}
	for _, f := range []string{files.CSV, files.PNG, files.HTML, files.Summary} {
		if f != "" {
			fmt.Fprintf(stdout, "wrote %s\n", f)
		}
	}
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("kickprofile: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, timeutil.RealClock{}, os.Stdout); err != nil {
		stop()
		log.Fatalf("kickprofile: %v", err)
	}
}
