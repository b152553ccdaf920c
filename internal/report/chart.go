// Package report renders burn curves and probability sweeps as PNG charts.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"forest-fire/pkg/sims/forestfire"
)

// ErrNotEnoughData is returned when a chart has fewer than two points.
var ErrNotEnoughData = errors.New("need at least two points to chart")

// SweepPoint aggregates the runs made at one propagation probability.
type SweepPoint struct {
	Probability float64
	MeanBurned  float64
	MeanSteps   float64
	Runs        int
}

func stateStyle(s forestfire.State) chart.Style {
	return chart.Style{StrokeColor: toDrawing(forestfire.Palette()[s]), StrokeWidth: 3}
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// BurnChart plots the Forest, Fire and Ash counts of every step of a run.
func BurnChart(w io.Writer, counts []forestfire.Stats) error {
	if len(counts) < 2 {
		return ErrNotEnoughData
	}
	steps := make([]float64, len(counts))
	forest := make([]float64, len(counts))
	fire := make([]float64, len(counts))
	ash := make([]float64, len(counts))
	for i, c := range counts {
		steps[i] = float64(i)
		forest[i] = float64(c.Forest)
		fire[i] = float64(c.Fire)
		ash[i] = float64(c.Ash)
	}
	total := float64(counts[0].Total())
	if total == 0 {
		return ErrNotEnoughData
	}

	graph := chart.Chart{
		Title:  "Burn curve",
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "step",
			Range: &chart.ContinuousRange{Min: 0, Max: steps[len(steps)-1]},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "cells",
			Range: &chart.ContinuousRange{Min: 0, Max: total},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "forest", XValues: steps, YValues: forest, Style: stateStyle(forestfire.Forest)},
			chart.ContinuousSeries{Name: "fire", XValues: steps, YValues: fire, Style: stateStyle(forestfire.Fire)},
			chart.ContinuousSeries{Name: "ash", XValues: steps, YValues: ash, Style: stateStyle(forestfire.Ash)},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render burn chart: %w", err)
	}
	return nil
}

// SweepChart plots the mean burned fraction against propagation probability.
func SweepChart(w io.Writer, points []SweepPoint) error {
	if len(points) < 2 {
		return ErrNotEnoughData
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Probability
		ys[i] = p.MeanBurned
	}

	graph := chart.Chart{
		Title:  "Burned fraction by propagation probability",
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name:  "propagation probability",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		YAxis: chart.YAxis{
			Name:  "mean burned fraction",
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "burned",
				XValues: xs,
				YValues: ys,
				Style:   stateStyle(forestfire.Fire),
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render sweep chart: %w", err)
	}
	return nil
}
