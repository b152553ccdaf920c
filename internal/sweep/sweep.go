// Package sweep measures how far fires spread across a range of propagation
// probabilities by running many independent simulations in parallel.
package sweep

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"forest-fire/internal/report"
	"forest-fire/pkg/core"
	"forest-fire/pkg/sims/forestfire"
)

// Options controls a sweep.
type Options struct {
	// Base supplies dimensions and initial fires; its probability is replaced.
	Base          forestfire.Config
	Probabilities []float64
	// Runs is the number of seeded runs per probability.
	Runs    int
	Workers int
	// MaxSteps bounds each run. Zero means until the fire burns out.
	MaxSteps int
}

// Result is the outcome of a single run.
type Result struct {
	Probability float64
	Seed        int64
	Steps       int
	Burned      float64
}

type job struct {
	p    float64
	seed int64
}

// Run executes the sweep and returns one aggregated point per probability,
// sorted by probability. Each run owns its engine, so no grid is shared
// between workers; seeds depend only on the run index, not on scheduling.
// Base dimensions and every probability are validated before any run starts.
func Run(opts Options) ([]report.SweepPoint, error) {
	for _, p := range opts.Probabilities {
		cfg := opts.Base
		cfg.Probability = p
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("sweep p=%v: %w", p, err)
		}
	}
	runs := opts.Runs
	if runs <= 0 {
		runs = 1
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan job)
	results := make(chan outcome)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, err := runOne(opts.Base, j, opts.MaxSteps)
				results <- outcome{res, err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, p := range opts.Probabilities {
			for r := 0; r < runs; r++ {
				jobs <- job{p: p, seed: opts.Base.Seed + int64(r)}
			}
		}
		close(jobs)
	}()

	var all []Result
	var firstErr error
	for out := range results {
		if out.err != nil {
			if firstErr == nil {
				firstErr = out.err
			}
			continue
		}
		all = append(all, out.res)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	// Sum in a fixed order so float rounding does not depend on scheduling.
	sort.Slice(all, func(i, j int) bool {
		if all[i].Probability != all[j].Probability {
			return all[i].Probability < all[j].Probability
		}
		return all[i].Seed < all[j].Seed
	})

	var points []report.SweepPoint
	for _, res := range all {
		if n := len(points); n == 0 || points[n-1].Probability != res.Probability {
			points = append(points, report.SweepPoint{Probability: res.Probability})
		}
		pt := &points[len(points)-1]
		pt.MeanBurned += res.Burned
		pt.MeanSteps += float64(res.Steps)
		pt.Runs++
	}
	for i := range points {
		points[i].MeanBurned /= float64(points[i].Runs)
		points[i].MeanSteps /= float64(points[i].Runs)
	}
	return points, nil
}

type outcome struct {
	res Result
	err error
}

func runOne(base forestfire.Config, j job, maxSteps int) (Result, error) {
	cfg := base
	cfg.Probability = j.p
	cfg.Seed = j.seed

	e := forestfire.New(core.NewRNG(j.seed))
	var err error
	if len(cfg.InitialFires) == 0 {
		_, err = e.InitializeRandom(cfg.Rows, cfg.Cols, cfg.Probability)
	} else {
		_, err = e.Initialize(cfg)
	}
	if err != nil {
		return Result{}, fmt.Errorf("sweep run p=%v seed=%d: %w", j.p, j.seed, err)
	}
	for maxSteps <= 0 || e.StepIndex() < maxSteps {
		if _, burning := e.Step(); !burning {
			break
		}
	}
	return Result{
		Probability: j.p,
		Seed:        j.seed,
		Steps:       e.StepIndex(),
		Burned:      e.Stats().BurnedFraction(),
	}, nil
}

// Range returns count evenly spaced probabilities from lo to hi inclusive.
func Range(lo, hi float64, count int) []float64 {
	if count <= 1 {
		return []float64{lo}
	}
	out := make([]float64, count)
	step := (hi - lo) / float64(count-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[count-1] = hi
	return out
}
