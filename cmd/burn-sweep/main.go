// Command burn-sweep estimates how much of the forest burns for a range of
// propagation probabilities.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"forest-fire/internal/report"
	"forest-fire/internal/sweep"
	"forest-fire/pkg/sims/forestfire"
)

func main() {
	rows := flag.Int("rows", 50, "grid rows")
	cols := flag.Int("cols", 50, "grid columns")
	runs := flag.Int("runs", 20, "seeded runs per probability")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	lo := flag.Float64("lo", 0, "lowest probability")
	hi := flag.Float64("hi", 1, "highest probability")
	count := flag.Int("count", 11, "number of probabilities between -lo and -hi")
	seed := flag.Int64("seed", 1, "seed of the first run; run i uses seed+i")
	maxSteps := flag.Int("max-steps", 0, "stop each run after this many steps (0 = until burned out)")
	center := flag.Bool("center", false, "ignite the centre cell instead of random fires")
	chartPath := flag.String("chart", "", "write a sweep chart PNG to this path")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "burn-sweep"})

	base := forestfire.Config{Rows: *rows, Cols: *cols, Probability: 0, Seed: *seed}
	if *center {
		base.InitialFires = []forestfire.Position{{Row: *rows / 2, Col: *cols / 2}}
	}
	if err := base.Validate(); err != nil {
		logger.Fatal("invalid grid", "err", err)
	}
	if *lo < 0 || *hi > 1 || *lo > *hi {
		logger.Fatal("invalid probability range", "lo", *lo, "hi", *hi)
	}

	probs := sweep.Range(*lo, *hi, *count)
	total := int64(len(probs) * max(*runs, 1))
	fmt.Printf("Sweeping %d probabilities x %d runs on %dx%d (%s simulations, %d workers)\n",
		len(probs), *runs, *rows, *cols, humanize.Comma(total), *workers)

	start := time.Now()
	points, err := sweep.Run(sweep.Options{
		Base:          base,
		Probabilities: probs,
		Runs:          *runs,
		Workers:       *workers,
		MaxSteps:      *maxSteps,
	})
	if err != nil {
		logger.Fatal("sweep failed", "err", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("\n%6s  %8s  %9s  %5s\n", "p", "burned", "steps", "runs")
	for _, pt := range points {
		fmt.Printf("%6.3f  %7.2f%%  %9.2f  %5d\n", pt.Probability, 100*pt.MeanBurned, pt.MeanSteps, pt.Runs)
	}
	fmt.Printf("\nElapsed %s (%s cells per run)\n", elapsed.Round(time.Millisecond), humanize.Comma(int64(*rows**cols)))

	if *chartPath != "" {
		f, err := os.Create(*chartPath)
		if err != nil {
			logger.Fatal("failed to create chart", "err", err)
		}
		if err := report.SweepChart(f, points); err != nil {
			f.Close()
			logger.Fatal("failed to render chart", "err", err)
		}
		if err := f.Close(); err != nil {
			logger.Fatal("failed to write chart", "err", err)
		}
		logger.Info("chart written", "path", *chartPath)
	}
}
