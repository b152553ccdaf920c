package app

import simcore "forest-fire/pkg/core"

type terminationReporter interface {
	Terminated() bool
}

// shouldStep reports whether sim advances this frame: a step must be due and
// the run must not have burned out.
func shouldStep(sim simcore.Sim, due bool) bool {
	if !due {
		return false
	}
	if r, ok := sim.(terminationReporter); ok && r.Terminated() {
		return false
	}
	return true
}
