package report

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"forest-fire/pkg/core"
	"forest-fire/pkg/sims/forestfire"
)

func TestBurnChartRendersPNG(t *testing.T) {
	e := forestfire.New(core.NewRNG(4))
	if _, err := e.Initialize(forestfire.Config{Rows: 16, Cols: 16, Probability: 0.7, InitialFires: []forestfire.Position{{Row: 8, Col: 8}}}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	counts := []forestfire.Stats{e.Stats()}
	for {
		_, burning := e.Step()
		counts = append(counts, e.Stats())
		if !burning {
			break
		}
	}

	var buf bytes.Buffer
	if err := BurnChart(&buf, counts); err != nil {
		t.Fatalf("burn chart: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 400 {
		t.Fatalf("bounds %v, expected 800x400", b)
	}
}

func TestSweepChartRendersPNG(t *testing.T) {
	points := []SweepPoint{
		{Probability: 0.2, MeanBurned: 0.05},
		{Probability: 0.5, MeanBurned: 0.4},
		{Probability: 0.8, MeanBurned: 0.97},
	}
	var buf bytes.Buffer
	if err := SweepChart(&buf, points); err != nil {
		t.Fatalf("sweep chart: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestChartsNeedTwoPoints(t *testing.T) {
	var buf bytes.Buffer
	if err := BurnChart(&buf, []forestfire.Stats{{Forest: 3}}); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("got %v, expected ErrNotEnoughData", err)
	}
	if err := SweepChart(&buf, nil); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("got %v, expected ErrNotEnoughData", err)
	}
}
