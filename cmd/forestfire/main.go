// Command forestfire runs a forest-fire simulation headlessly.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"forest-fire/internal/app"
	"forest-fire/internal/driver"
	"forest-fire/internal/history"
	"forest-fire/internal/loader"
	"forest-fire/internal/render"
	"forest-fire/internal/report"
	"forest-fire/pkg/core"
	"forest-fire/pkg/sims/forestfire"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	source      string
	random      bool
	seed        int64
	interval    time.Duration
	maxSteps    int
	historyPath string
	listRuns    bool
	chartPath   string
	framePath   string
	frameScale  int
	printGrid   bool
	verbose     bool
	// overrides holds the explicitly set -rows/-cols/-p/-fires flags and every
	// -set entry, applied on top of the loaded or default configuration.
	overrides map[string]string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("forestfire", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.source, "config", "", "JSON configuration file or http(s) URL")
	rows := fs.Int("rows", 6, "grid rows")
	cols := fs.Int("cols", 6, "grid columns")
	prob := fs.Float64("p", 0.75, "propagation probability")
	fires := fs.String("fires", "2:2", "initial fires as row:col pairs separated by ';'")
	fs.Int64Var(&o.seed, "seed", 0, "RNG seed (0 keeps the configured seed or picks one from the clock)")
	fs.BoolVar(&o.random, "random", false, "seed one to three random fires instead of -fires")
	fs.DurationVar(&o.interval, "interval", time.Second, "time between steps (0 steps as fast as possible)")
	fs.IntVar(&o.maxSteps, "max-steps", 0, "stop after this many steps (0 = until burned out)")
	fs.StringVar(&o.historyPath, "history", "", "SQLite file to record every step into")
	fs.BoolVar(&o.listRuns, "list-runs", false, "list the runs recorded in -history and exit")
	fs.StringVar(&o.chartPath, "chart", "", "write a burn-curve PNG to this path")
	fs.StringVar(&o.framePath, "frame", "", "write the final grid as PNG to this path")
	fs.IntVar(&o.frameScale, "frame-scale", 16, "pixels per cell for -frame")
	fs.BoolVar(&o.printGrid, "print", false, "print the grid after every step")
	fs.BoolVar(&o.verbose, "v", false, "log every step")
	sets := app.KeyValues{}
	fs.Var(sets, "set", "simulation parameter in key=value form (repeatable)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	o.overrides = map[string]string{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows":
			o.overrides["rows"] = strconv.Itoa(*rows)
		case "cols":
			o.overrides["cols"] = strconv.Itoa(*cols)
		case "p":
			o.overrides["p"] = strconv.FormatFloat(*prob, 'f', -1, 64)
		case "fires":
			o.overrides["fires"] = *fires
		}
	})
	for k, v := range sets {
		o.overrides[k] = v
	}
	return o, nil
}

// resolveConfig loads the configuration document when a source is given and
// applies the command-line overrides on top of it or of the defaults.
func resolveConfig(ctx context.Context, o options) (forestfire.Config, error) {
	cfg := forestfire.DefaultConfig()
	if o.source != "" {
		var err error
		cfg, err = loader.Load(ctx, o.source)
		if err != nil {
			return forestfire.Config{}, err
		}
	}
	cfg = cfg.Override(o.overrides)
	if o.random {
		cfg.InitialFires = nil
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if err := cfg.Validate(); err != nil {
		return forestfire.Config{}, err
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	logger := log.NewWithOptions(stderr, log.Options{ReportTimestamp: true, Prefix: "forestfire"})
	if o.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var store *history.Store
	if o.historyPath != "" {
		store, err = history.Open(o.historyPath)
		if err != nil {
			logger.Error("failed to open history", "path", o.historyPath, "err", err)
			return 1
		}
		defer store.Close()
	}

	if o.listRuns {
		if store == nil {
			logger.Error("-list-runs requires -history")
			return 2
		}
		if err := printRuns(stdout, store); err != nil {
			logger.Error("failed to list runs", "err", err)
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveConfig(ctx, o)
	if err != nil {
		logger.Error("failed to resolve configuration", "err", err)
		return 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger.Info("configuration", "rows", cfg.Rows, "cols", cfg.Cols, "p", cfg.Probability, "seed", cfg.Seed)

	var recorder driver.Recorder
	if store != nil {
		r, err := store.BeginRun(cfg)
		if err != nil {
			logger.Error("failed to begin run", "err", err)
			return 1
		}
		logger.Info("recording history", "run", r.ID(), "path", o.historyPath)
		recorder = r
	}

	var counts []forestfire.Stats
	onStep := func(step int, g *forestfire.Grid) {
		counts = append(counts, forestfire.StatsOf(g))
		if o.printGrid {
			fmt.Fprintf(stdout, "step %d\n%s\n", step, render.Text(g))
		}
	}

	d := driver.New(core.NewRNG(cfg.Seed), driver.Options{
		Logger:   logger,
		Recorder: recorder,
		OnStep:   onStep,
		MaxSteps: o.maxSteps,
	})

	if len(cfg.InitialFires) == 0 {
		err = d.InitializeRandom(cfg.Rows, cfg.Cols, cfg.Probability)
	} else {
		err = d.Initialize(cfg)
	}
	if err != nil {
		logger.Error("simulation not started", "err", err)
		return 1
	}

	start := time.Now()
	if o.interval > 0 {
		err = d.Run(ctx, o.interval)
	} else {
		for d.Step() {
			if ctx.Err() != nil {
				d.Stop()
				break
			}
		}
		err = errors.Join(d.Err(), ctx.Err())
	}
	if errors.Is(err, context.Canceled) {
		logger.Warn("interrupted")
	} else if err != nil {
		logger.Error("simulation failed", "err", err)
		return 1
	}

	final := d.Grid()
	stats := forestfire.StatsOf(final)
	fmt.Fprintf(stdout, "steps %d in %s: forest %s, ash %s, fire %s (%.1f%% burned)\n",
		d.StepIndex(),
		time.Since(start).Round(time.Millisecond),
		humanize.Comma(int64(stats.Forest)),
		humanize.Comma(int64(stats.Ash)),
		humanize.Comma(int64(stats.Fire)),
		100*stats.BurnedFraction(),
	)

	code := 0
	if o.framePath != "" {
		if err := writeFile(o.framePath, func(w io.Writer) error { return render.WritePNG(w, final, o.frameScale) }); err != nil {
			logger.Error("failed to write frame", "err", err)
			code = 1
		}
	}
	if o.chartPath != "" {
		if err := writeFile(o.chartPath, func(w io.Writer) error { return report.BurnChart(w, counts) }); err != nil {
			logger.Error("failed to write chart", "err", err)
			code = 1
		}
	}
	return code
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printRuns(w io.Writer, store *history.Store) error {
	runs, err := store.Runs()
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %-14s %dx%d p=%.2f seed=%d  %s steps\n",
			r.ID,
			humanize.Time(r.CreatedAt),
			r.Config.Rows, r.Config.Cols, r.Config.Probability, r.Config.Seed,
			humanize.Comma(int64(r.Steps)),
		)
	}
	return nil
}
