package history

import (
	"errors"
	"path/filepath"
	"testing"

	"forest-fire/internal/driver"
	"forest-fire/pkg/core"
	"forest-fire/pkg/sims/forestfire"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	cfg := forestfire.Config{Rows: 4, Cols: 6, Probability: 0.8, Seed: 3, InitialFires: []forestfire.Position{{Row: 1, Col: 1}}}
	run, err := s.BeginRun(cfg)
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}

	engine := forestfire.New(core.NewRNG(cfg.Seed), forestfire.WithHistory())
	if _, err := engine.Initialize(cfg); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := run.Record(0, engine.Grid()); err != nil {
		t.Fatalf("record 0: %v", err)
	}
	for {
		g, burning := engine.Step()
		if err := run.Record(engine.StepIndex(), g); err != nil {
			t.Fatalf("record %d: %v", engine.StepIndex(), err)
		}
		if !burning {
			break
		}
	}

	h := engine.History()
	for step := 0; step < h.Len(); step++ {
		want, _ := h.At(step)
		got, err := s.Load(run.ID(), step)
		if err != nil {
			t.Fatalf("load %d: %v", step, err)
		}
		if !got.Equal(want) {
			t.Fatalf("step %d does not round trip", step)
		}
	}

	summaries, err := s.Steps(run.ID())
	if err != nil {
		t.Fatalf("steps: %v", err)
	}
	if len(summaries) != h.Len() {
		t.Fatalf("got %d summaries, expected %d", len(summaries), h.Len())
	}
	first := summaries[0]
	if first.Step != 0 || first.Fire != 1 || first.Forest != 23 || first.Ash != 0 {
		t.Fatalf("unexpected first summary %+v", first)
	}
}

func TestRecordIsAppendOnly(t *testing.T) {
	s := openTestStore(t)
	run, err := s.BeginRun(forestfire.DefaultConfig())
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	g := forestfire.NewGrid(6, 6)
	if err := run.Record(1, g); !errors.Is(err, forestfire.ErrStepOutOfOrder) {
		t.Fatalf("got %v, expected gap to be rejected", err)
	}
	if err := run.Record(0, g); err != nil {
		t.Fatalf("record 0: %v", err)
	}
	if err := run.Record(0, forestfire.Seed(6, 6, []forestfire.Position{{Row: 0, Col: 0}})); !errors.Is(err, forestfire.ErrStepOutOfOrder) {
		t.Fatalf("got %v, expected overwrite to be rejected", err)
	}
	got, err := s.Load(run.ID(), 0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Equal(g) {
		t.Fatal("recorded step was modified")
	}
}

func TestLoadMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Load("nope", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, expected ErrNotFound", err)
	}
}

func TestRunsListsRecordedRuns(t *testing.T) {
	s := openTestStore(t)
	cfg := forestfire.Config{Rows: 5, Cols: 5, Probability: 0.5, Seed: 9, InitialFires: []forestfire.Position{{Row: 2, Col: 2}}}
	run, err := s.BeginRun(cfg)
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}

	d := driver.New(core.NewRNG(cfg.Seed), driver.Options{Recorder: run})
	if err := d.Initialize(cfg); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	for d.Step() {
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	info := runs[0]
	if info.ID != run.ID() || info.Steps != d.StepIndex()+1 {
		t.Fatalf("unexpected run info %+v", info)
	}
	if info.Config.Rows != 5 || info.Config.Seed != 9 || len(info.Config.InitialFires) != 1 {
		t.Fatalf("config did not round trip: %+v", info.Config)
	}
	if info.CreatedAt.IsZero() {
		t.Fatal("expected creation time")
	}
}
