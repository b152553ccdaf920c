package ui

import (
	"slices"
	"testing"

	"forest-fire/pkg/core"
)

func TestLinesLayout(t *testing.T) {
	snap := core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "Run", Params: []core.Parameter{{Key: "step", Label: "Step", Value: "4"}}},
	}}
	got := Lines("forestfire", StatusBurnedOut, snap)
	want := []string{
		"forestfire",
		"status: burned out",
		"",
		"RUN",
		"  Step                     4",
		"",
		keyHelp,
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got %q\nexpected %q", got, want)
	}
}

func TestBuildTitleFallback(t *testing.T) {
	if got := buildTitle(nil); got != "Simulation" {
		t.Fatalf("got %q", got)
	}
}
