package forestfire

import (
	"slices"
	"testing"

	"forest-fire/pkg/core"
)

// constRand always draws the same float and always picks index 0.
type constRand float64

func (c constRand) Float64() float64 { return float64(c) }
func (c constRand) IntN(int) int     { return 0 }

// seqRand yields scripted integers in order, wrapping around.
type seqRand struct {
	ints []int
	i    int
}

func (s *seqRand) Float64() float64 { return 0 }
func (s *seqRand) IntN(n int) int {
	v := s.ints[s.i%len(s.ints)] % n
	s.i++
	return v
}

// countingRand yields scripted floats in order and counts how many were drawn.
type countingRand struct {
	floats []float64
	draws  int
}

func (c *countingRand) Float64() float64 {
	v := c.floats[c.draws%len(c.floats)]
	c.draws++
	return v
}
func (c *countingRand) IntN(int) int { return 0 }

func expectGrid(t *testing.T, label string, g *Grid, rows []string) {
	t.Helper()
	symbols := map[byte]State{'T': Forest, '*': Fire, '.': Ash}
	for r, line := range rows {
		for c := 0; c < len(line); c++ {
			want := symbols[line[c]]
			got, _ := g.At(r, c)
			if got != want {
				t.Fatalf("%s: cell (%d,%d) = %v, expected %v", label, r, c, got, want)
			}
		}
	}
}

func TestInitializeSeedsOnlyInBoundsFires(t *testing.T) {
	e := New(constRand(0))
	cfg := Config{
		Rows:         4,
		Cols:         5,
		Probability:  0.5,
		InitialFires: []Position{{Row: 1, Col: 2}, {Row: -1, Col: 0}, {Row: 4, Col: 0}, {Row: 0, Col: 5}, {Row: 3, Col: 4}},
	}
	g, err := e.Initialize(cfg)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if g.Rows() != 4 || g.Cols() != 5 {
		t.Fatalf("grid is %dx%d, expected 4x5", g.Rows(), g.Cols())
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			want := Forest
			if (r == 1 && c == 2) || (r == 3 && c == 4) {
				want = Fire
			}
			if got, _ := g.At(r, c); got != want {
				t.Fatalf("cell (%d,%d) = %v, expected %v", r, c, got, want)
			}
		}
	}
	if e.StepIndex() != 0 {
		t.Fatalf("initial step index = %d, expected 0", e.StepIndex())
	}
}

func TestInitializeRejectsInvalidConfig(t *testing.T) {
	cases := []Config{
		{Rows: 0, Cols: 3, Probability: 0.5},
		{Rows: 3, Cols: -1, Probability: 0.5},
		{Rows: 3, Cols: 3, Probability: 1.5},
		{Rows: 3, Cols: 3, Probability: -0.1},
	}
	for _, cfg := range cases {
		e := New(constRand(0))
		if _, err := e.Initialize(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
		if e.Initialized() {
			t.Fatalf("engine must stay uninitialized for %+v", cfg)
		}
	}
}

func TestInitializeRandomPlacesOneToThreeFires(t *testing.T) {
	rng := &seqRand{ints: []int{2, 1, 1, 1, 1, 3, 0}}
	e := New(rng)
	g, err := e.InitializeRandom(4, 4, 0.5)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	// count draw 2 -> three fires at (1,1), (1,1) and (3,0); duplicates collapse.
	fires := e.Config().InitialFires
	if len(fires) != 3 {
		t.Fatalf("expected 3 seeded positions, got %d", len(fires))
	}
	if got := g.Count(Fire); got != 2 {
		t.Fatalf("expected 2 distinct fire cells, got %d", got)
	}

	for seed := int64(1); seed <= 50; seed++ {
		e := New(core.NewRNG(seed))
		g, err := e.InitializeRandom(10, 7, 0.3)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		n := len(e.Config().InitialFires)
		if n < 1 || n > 3 {
			t.Fatalf("seed %d: %d seeded fires, expected 1..3", seed, n)
		}
		if fires := g.Count(Fire); fires < 1 || fires > n {
			t.Fatalf("seed %d: %d fire cells for %d seeds", seed, fires, n)
		}
	}
}

func TestCrossScenarioWithCertainSpread(t *testing.T) {
	e := New(core.NewRNG(7))
	if _, err := e.Initialize(Config{Rows: 3, Cols: 3, Probability: 1, InitialFires: []Position{{Row: 1, Col: 1}}}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	g, burning := e.Step()
	if !burning {
		t.Fatal("step 1 processed a burning grid")
	}
	expectGrid(t, "step 1", g, []string{
		"T*T",
		"*.*",
		"T*T",
	})

	// Corners touch two burning edge cells orthogonally.
	g, burning = e.Step()
	if !burning {
		t.Fatal("step 2 processed a burning grid")
	}
	expectGrid(t, "step 2", g, []string{
		"*.*",
		"...",
		"*.*",
	})

	g, burning = e.Step()
	if !burning {
		t.Fatal("step 3 processed a burning grid")
	}
	expectGrid(t, "step 3", g, []string{
		"...",
		"...",
		"...",
	})

	if _, burning = e.Step(); burning {
		t.Fatal("step 4 found fire in a burned-out grid")
	}
	if !e.Terminated() || !ShouldTerminate(burning) {
		t.Fatal("run should terminate once no fire remains")
	}
}

func TestNoSpreadBurnsOutAfterOneStep(t *testing.T) {
	for _, size := range []int{1, 3, 25} {
		e := New(core.NewRNG(1))
		if _, err := e.Initialize(Config{Rows: size, Cols: size, Probability: 0, InitialFires: []Position{{Row: 0, Col: 0}}}); err != nil {
			t.Fatalf("initialize: %v", err)
		}
		g, burning := e.Step()
		if !burning {
			t.Fatalf("size %d: step 1 should report the seeded fire", size)
		}
		if g.Count(Fire) != 0 || g.Count(Ash) != 1 {
			t.Fatalf("size %d: expected one ash and no fire, got fire=%d ash=%d", size, g.Count(Fire), g.Count(Ash))
		}
		final, burning := e.Step()
		if burning || !e.Terminated() {
			t.Fatalf("size %d: expected termination on the first fire-free step", size)
		}
		if !final.Equal(g) {
			t.Fatalf("size %d: fire-free step changed the grid", size)
		}
	}
}

func TestStepAfterTerminationIsNoop(t *testing.T) {
	e := New(core.NewRNG(3), WithHistory())
	if _, err := e.Initialize(Config{Rows: 2, Cols: 2, Probability: 0, InitialFires: []Position{{Row: 0, Col: 0}}}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	e.Step()
	if _, burning := e.Step(); burning {
		t.Fatal("expected the second step to find no fire")
	}
	final := e.Grid()
	steps := e.StepIndex()
	recorded := e.History().Len()

	for i := 0; i < 3; i++ {
		g, burning := e.Step()
		if burning {
			t.Fatal("terminated engine reported fire")
		}
		if g != final {
			t.Fatal("terminated engine produced a new grid")
		}
	}
	if e.StepIndex() != steps {
		t.Fatalf("step index moved from %d to %d after termination", steps, e.StepIndex())
	}
	if e.History().Len() != recorded {
		t.Fatal("history grew after termination")
	}
}

func TestStepBeforeInitialize(t *testing.T) {
	e := New(constRand(0))
	g, burning := e.Step()
	if g != nil || burning {
		t.Fatal("uninitialized engine must not step")
	}
}

func TestAdvanceInvariants(t *testing.T) {
	rng := core.NewRNG(2024)
	for trial := 0; trial < 200; trial++ {
		rows := 1 + rng.IntN(9)
		cols := 1 + rng.IntN(9)
		states := make([]State, rows*cols)
		for i := range states {
			states[i] = State(rng.IntN(3))
		}
		before := FromStates(rows, cols, states)
		p := rng.Float64()

		after, burning := Advance(before, p, rng)

		if !slices.Equal(before.States(), states) {
			t.Fatal("Advance mutated its input")
		}
		if burning != (before.Count(Fire) > 0) {
			t.Fatalf("burning=%v with %d fire cells before", burning, before.Count(Fire))
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				was, _ := before.At(r, c)
				now, _ := after.At(r, c)
				switch was {
				case Ash:
					if now != Ash {
						t.Fatalf("ash at (%d,%d) became %v", r, c, now)
					}
				case Fire:
					if now != Ash {
						t.Fatalf("fire at (%d,%d) became %v, expected ash", r, c, now)
					}
				case Forest:
					if now == Ash {
						t.Fatalf("forest at (%d,%d) turned to ash within one step", r, c)
					}
					if now == Fire && !touchesFire(before, r, c) {
						t.Fatalf("forest at (%d,%d) ignited without a burning neighbour", r, c)
					}
				}
			}
		}
	}
}

func touchesFire(g *Grid, r, c int) bool {
	for _, d := range neighbours {
		if s, ok := g.At(r+d.Row, c+d.Col); ok && s == Fire {
			return true
		}
	}
	return false
}

func TestFreshFireDoesNotSpreadInSameStep(t *testing.T) {
	g := Seed(1, 5, []Position{{Row: 0, Col: 0}})
	next, _ := Advance(g, 1, constRand(0))
	expectGrid(t, "row", next, []string{".*TTT"})
}

func TestHistoryRecordsEveryStep(t *testing.T) {
	e := New(core.NewRNG(11), WithHistory())
	if _, err := e.Initialize(Config{Rows: 5, Cols: 5, Probability: 0.6, InitialFires: []Position{{Row: 2, Col: 2}}}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	grids := []*Grid{e.Grid()}
	for {
		g, burning := e.Step()
		grids = append(grids, g)
		if ShouldTerminate(burning) {
			break
		}
	}
	h := e.History()
	if h.Len() != len(grids) || h.Len() != e.StepIndex()+1 {
		t.Fatalf("history has %d entries, expected %d", h.Len(), len(grids))
	}
	for i, g := range grids {
		got, ok := h.At(i)
		if !ok || got != g {
			t.Fatalf("history step %d does not hold the returned snapshot", i)
		}
	}
	if _, ok := h.At(h.Len()); ok {
		t.Fatal("history returned a step past the end")
	}
	if err := h.Record(0, e.Grid()); err == nil {
		t.Fatal("expected out-of-order record to fail")
	}
}

func TestSeededRunsAreDeterministic(t *testing.T) {
	run := func() []State {
		e := New(core.NewRNG(99))
		e.Initialize(Config{Rows: 20, Cols: 20, Probability: 0.55, InitialFires: []Position{{Row: 10, Col: 10}}})
		for {
			if _, burning := e.Step(); !burning {
				break
			}
		}
		return e.Grid().States()
	}
	if !slices.Equal(run(), run()) {
		t.Fatal("same seed produced different final grids")
	}
}

func TestStatsBurnedFraction(t *testing.T) {
	g := FromStates(2, 2, []State{Forest, Fire, Ash, Ash})
	s := StatsOf(g)
	if s.Forest != 1 || s.Fire != 1 || s.Ash != 2 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if got := s.BurnedFraction(); got != 0.75 {
		t.Fatalf("burned fraction = %v, expected 0.75", got)
	}
	if (Stats{}).BurnedFraction() != 0 {
		t.Fatal("empty stats should report zero")
	}
}

func TestStateClass(t *testing.T) {
	cases := map[State]string{Forest: "forest", Fire: "fire", Ash: "ash", State(7): ""}
	for s, want := range cases {
		if got := s.Class(); got != want {
			t.Fatalf("State(%d).Class() = %q, expected %q", s, got, want)
		}
	}
}

func TestSharedNeighbourDrawsOnlyWhileForest(t *testing.T) {
	cases := []struct {
		name   string
		floats []float64
		draws  int
		middle State
	}{
		{name: "first fire ignites", floats: []float64{0.1}, draws: 1, middle: Fire},
		{name: "first fire misses", floats: []float64{0.9, 0.1}, draws: 2, middle: Fire},
		{name: "both miss", floats: []float64{0.9, 0.9}, draws: 2, middle: Forest},
		{name: "draw equal to p", floats: []float64{0.5}, draws: 2, middle: Forest},
	}
	for _, tc := range cases {
		g := FromStates(1, 3, []State{Fire, Forest, Fire})
		rng := &countingRand{floats: tc.floats}
		next, burning := Advance(g, 0.5, rng)
		if !burning {
			t.Fatalf("%s: expected pre-step fire", tc.name)
		}
		if rng.draws != tc.draws {
			t.Fatalf("%s: %d draws, expected %d", tc.name, rng.draws, tc.draws)
		}
		if got, _ := next.At(0, 1); got != tc.middle {
			t.Fatalf("%s: middle cell %v, expected %v", tc.name, got, tc.middle)
		}
		if a, _ := next.At(0, 0); a != Ash {
			t.Fatalf("%s: left fire should be ash, got %v", tc.name, a)
		}
		if a, _ := next.At(0, 2); a != Ash {
			t.Fatalf("%s: right fire should be ash, got %v", tc.name, a)
		}
	}
}
