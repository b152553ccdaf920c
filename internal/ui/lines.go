package ui

import (
	"fmt"
	"strings"

	"forest-fire/pkg/core"
)

// Status summarizes the run state shown at the top of the HUD.
type Status int

const (
	StatusRunning Status = iota
	StatusPaused
	StatusBurnedOut
)

func (s Status) String() string {
	switch s {
	case StatusPaused:
		return "paused"
	case StatusBurnedOut:
		return "burned out"
	default:
		return "running"
	}
}

const keyHelp = "space pause  n step  r reset  s reseed  up/down p"

// Lines lays out the HUD text: title, status, one block per parameter group
// and the key help.
func Lines(title string, status Status, snap core.ParameterSnapshot) []string {
	lines := []string{title, "status: " + status.String(), ""}
	for _, group := range snap.Groups {
		lines = append(lines, strings.ToUpper(group.Name))
		for _, p := range group.Params {
			lines = append(lines, fmt.Sprintf("  %-24s %s", p.Label, p.Value))
		}
		lines = append(lines, "")
	}
	return append(lines, keyHelp)
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Simulation"
	}
	return sim.Name()
}
