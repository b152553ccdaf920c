package forestfire

import (
	"time"

	"forest-fire/pkg/core"
)

// von Neumann neighbourhood in the order fire is offered: up, down, left, right.
var neighbours = [4]Position{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// Seed returns a fresh all-Forest grid with the given positions set on fire.
// Positions outside the grid are ignored.
func Seed(rows, cols int, fires []Position) *Grid {
	g := NewGrid(rows, cols)
	for _, p := range fires {
		if g.InBounds(p.Row, p.Col) {
			g.set(p.Row, p.Col, Fire)
		}
	}
	return g
}

// RandomFires picks between one and three positions uniformly, with
// replacement, so duplicates are possible.
func RandomFires(rng core.Rand, rows, cols int) []Position {
	n := 1 + rng.IntN(3)
	out := make([]Position, n)
	for i := range out {
		out[i] = Position{Row: rng.IntN(rows), Col: rng.IntN(cols)}
	}
	return out
}

// Advance computes the generation after g without modifying it. Decisions are
// read from g while every write lands in the returned grid, so a cell ignited
// during this call does not spread until the next one. The bool reports
// whether g held any Fire cell.
func Advance(g *Grid, p float64, rng core.Rand) (*Grid, bool) {
	next := g.clone()
	burning := false
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			if g.cells[row*g.cols+col] != Fire {
				continue
			}
			burning = true
			for _, d := range neighbours {
				nr, nc := row+d.Row, col+d.Col
				if !next.InBounds(nr, nc) {
					continue
				}
				idx := nr*next.cols + nc
				if next.cells[idx] != Forest {
					continue
				}
				if core.Chance(rng, p) {
					next.cells[idx] = Fire
				}
			}
			next.set(row, col, Ash)
		}
	}
	return next, burning
}

// ShouldTerminate reports whether a run must stop after a step that returned
// fireStillExists.
func ShouldTerminate(fireStillExists bool) bool {
	return !fireStillExists
}

// Stats counts cells per state.
type Stats struct {
	Forest int
	Fire   int
	Ash    int
}

// StatsOf counts the states of g.
func StatsOf(g *Grid) Stats {
	var s Stats
	if g == nil {
		return s
	}
	for _, c := range g.cells {
		switch c {
		case Forest:
			s.Forest++
		case Fire:
			s.Fire++
		case Ash:
			s.Ash++
		}
	}
	return s
}

// Total returns the number of counted cells.
func (s Stats) Total() int { return s.Forest + s.Fire + s.Ash }

// BurnedFraction returns the share of cells that are burning or burned out.
func (s Stats) BurnedFraction() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Fire+s.Ash) / float64(total)
}

// Option customizes an Engine.
type Option func(*Engine)

// WithHistory keeps every generation in an in-memory History.
func WithHistory() Option {
	return func(e *Engine) { e.keepHistory = true }
}

// Engine owns the grid of one simulation run. It is not safe for concurrent
// use; callers step it from a single goroutine.
type Engine struct {
	cfg  Config
	rng  core.Rand
	grid *Grid
	step int

	terminated  bool
	keepHistory bool
	history     *History
}

// New returns an engine drawing from rng. A nil rng is replaced by one seeded
// from the clock.
func New(rng core.Rand, opts ...Option) *Engine {
	if rng == nil {
		rng = core.NewRNG(time.Now().UnixNano())
	}
	e := &Engine{rng: rng}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize starts a run from cfg and returns the step 0 grid.
func (e *Engine) Initialize(cfg Config) (*Grid, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.InitialFires = append([]Position(nil), cfg.InitialFires...)
	e.cfg = cfg
	e.grid = Seed(cfg.Rows, cfg.Cols, cfg.InitialFires)
	e.step = 0
	e.terminated = false
	e.history = nil
	if e.keepHistory {
		e.history = NewHistory()
		e.history.add(e.grid)
	}
	return e.grid, nil
}

// InitializeRandom starts a run with one to three randomly placed fires. The
// chosen positions are available from Config afterwards.
func (e *Engine) InitializeRandom(rows, cols int, p float64) (*Grid, error) {
	cfg := Config{Rows: rows, Cols: cols, Probability: p}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.InitialFires = RandomFires(e.rng, rows, cols)
	return e.Initialize(cfg)
}

// Step advances the run by one generation and reports whether the grid it
// processed held any fire. Once a step has reported false the run is over:
// further calls change nothing and return the final grid with false. Calls
// before Initialize return nil and false.
func (e *Engine) Step() (*Grid, bool) {
	if e.grid == nil || e.terminated {
		return e.grid, false
	}
	next, burning := Advance(e.grid, e.cfg.Probability, e.rng)
	e.grid = next
	e.step++
	if e.history != nil {
		e.history.add(next)
	}
	if ShouldTerminate(burning) {
		e.terminated = true
	}
	return next, burning
}

// Grid returns the current snapshot, or nil before Initialize.
func (e *Engine) Grid() *Grid { return e.grid }

// StepIndex returns the index of the current snapshot.
func (e *Engine) StepIndex() int { return e.step }

// Initialized reports whether Initialize has succeeded.
func (e *Engine) Initialized() bool { return e.grid != nil }

// Terminated reports whether a step has found no fire.
func (e *Engine) Terminated() bool { return e.terminated }

// Config returns the configuration of the current run.
func (e *Engine) Config() Config { return e.cfg }

// History returns the recorded generations, or nil unless WithHistory was set.
func (e *Engine) History() *History { return e.history }

// Stats counts the states of the current grid.
func (e *Engine) Stats() Stats { return StatsOf(e.grid) }
