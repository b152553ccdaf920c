// Package driver runs a forest-fire engine on a cadence and exposes the
// control surface used by the CLI: Initialize, Step, Stop and IsRunning.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"forest-fire/pkg/core"
	"forest-fire/pkg/sims/forestfire"
)

// ErrNotInitialized is returned by Run before a successful Initialize.
var ErrNotInitialized = errors.New("driver not initialized")

// Recorder receives every generation, starting with step 0.
type Recorder interface {
	Record(step int, g *forestfire.Grid) error
}

// Options configures a Driver. The zero value is usable.
type Options struct {
	Logger   *log.Logger
	Recorder Recorder
	// OnStep is called after each generation is recorded, with the lock held:
	// it must not call back into the Driver.
	OnStep func(step int, g *forestfire.Grid)
	// MaxSteps stops the run after that many steps. Zero means unlimited.
	MaxSteps int
}

// Driver owns one engine and serializes every step through a single mutex, so
// at most one generation is computed at a time.
type Driver struct {
	mu      sync.Mutex
	rng     core.Rand
	opts    Options
	logger  *log.Logger
	engine  *forestfire.Engine
	running bool
	done    chan struct{}
	err     error
}

// New returns a Driver whose runs draw from rng.
func New(rng core.Rand, opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{rng: rng, opts: opts, logger: logger}
}

// Initialize starts a new run from cfg, discarding any previous one. On error
// the driver is left stopped and nothing is stepped.
func (d *Driver) Initialize(cfg forestfire.Config) error {
	return d.start(func(e *forestfire.Engine) (*forestfire.Grid, error) {
		return e.Initialize(cfg)
	})
}

// InitializeRandom starts a new run with one to three random fires.
func (d *Driver) InitializeRandom(rows, cols int, p float64) error {
	return d.start(func(e *forestfire.Engine) (*forestfire.Grid, error) {
		return e.InitializeRandom(rows, cols, p)
	})
}

func (d *Driver) start(init func(*forestfire.Engine) (*forestfire.Grid, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.halt()
	d.err = nil
	engine := forestfire.New(d.rng)
	grid, err := init(engine)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	d.engine = engine
	d.running = true
	d.done = make(chan struct{})
	if err := d.publish(0, grid); err != nil {
		return err
	}

	cfg := engine.Config()
	d.logger.Info("simulation initialized",
		"rows", cfg.Rows,
		"cols", cfg.Cols,
		"fires", grid.Count(forestfire.Fire),
		"p", cfg.Probability,
	)
	return nil
}

// Step computes one generation and reports whether the run continues. It is
// a no-op returning false when the driver is not running.
func (d *Driver) Step() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return false
	}
	grid, burning := d.engine.Step()
	step := d.engine.StepIndex()
	if err := d.publish(step, grid); err != nil {
		return false
	}
	d.logger.Debug("step", "step", step, "fire", grid.Count(forestfire.Fire), "ash", grid.Count(forestfire.Ash))

	if forestfire.ShouldTerminate(burning) {
		stats := d.engine.Stats()
		d.logger.Info("fire burned out", "step", step, "ash", stats.Ash, "forest", stats.Forest)
		d.halt()
		return false
	}
	if d.opts.MaxSteps > 0 && step >= d.opts.MaxSteps {
		d.logger.Warn("step limit reached", "step", step)
		d.halt()
		return false
	}
	return true
}

// publish hands a generation to the recorder and observer. A recorder failure
// stops the run.
func (d *Driver) publish(step int, g *forestfire.Grid) error {
	if d.opts.Recorder != nil {
		if err := d.opts.Recorder.Record(step, g); err != nil {
			d.err = fmt.Errorf("record step %d: %w", step, err)
			d.logger.Error("recording failed, stopping", "step", step, "err", err)
			d.halt()
			return d.err
		}
	}
	if d.opts.OnStep != nil {
		d.opts.OnStep(step, g)
	}
	return nil
}

// Stop halts the run. It is safe to call in any state, any number of times;
// once it returns no further step is computed.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		d.logger.Info("simulation stopped", "step", d.engine.StepIndex())
	}
	d.halt()
}

func (d *Driver) halt() {
	if !d.running {
		return
	}
	d.running = false
	close(d.done)
}

// IsRunning reports whether further steps will be computed.
func (d *Driver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Err returns the recorder failure that stopped the run, if any.
func (d *Driver) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Grid returns the current snapshot, or nil before Initialize.
func (d *Driver) Grid() *forestfire.Grid {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.engine == nil {
		return nil
	}
	return d.engine.Grid()
}

// StepIndex returns the index of the current snapshot.
func (d *Driver) StepIndex() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.engine == nil {
		return 0
	}
	return d.engine.StepIndex()
}

// Run steps once per interval until the fire burns out, Stop is called or ctx
// is done. Natural termination and Stop return the recorder error, if any;
// cancellation stops the run and returns ctx.Err().
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	d.mu.Lock()
	if d.engine == nil {
		d.mu.Unlock()
		return ErrNotInitialized
	}
	if !d.running {
		err := d.err
		d.mu.Unlock()
		return err
	}
	done := d.done
	d.mu.Unlock()

	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.Stop()
			return ctx.Err()
		case <-done:
			return d.Err()
		case <-ticker.C:
			if !d.Step() {
				return d.Err()
			}
		}
	}
}
