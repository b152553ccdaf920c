package forestfire

import (
	"math"
	"strconv"

	"forest-fire/pkg/core"
)

// Sim adapts an Engine to the core.Sim contract used by the GUI. Reset starts
// a new run; Step is a no-op once the fire has burned out.
type Sim struct {
	cfg     Config
	engine  *Engine
	display []uint8
	err     error
}

// NewSim returns a Sim for cfg, or the validation error if cfg cannot start a
// run. Without initial fires every Reset seeds one to three random fires.
func NewSim(cfg Config) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sim{cfg: cfg, engine: New(core.NewRNG(cfg.Seed)), display: make([]uint8, cfg.Rows*cfg.Cols)}, nil
}

// Name returns the simulation identifier.
func (s *Sim) Name() string { return "forestfire" }

// Size reports the grid dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.Cols, H: s.cfg.Rows} }

// Cells exposes the display buffer: one State value per cell, row-major.
func (s *Sim) Cells() []uint8 { return s.display }

// Engine exposes the engine of the current run.
func (s *Sim) Engine() *Engine { return s.engine }

// Terminated reports whether the current run has burned out.
func (s *Sim) Terminated() bool { return s.engine.Terminated() }

// Reset starts a new run. A zero seed falls back to the configured seed.
func (s *Sim) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = s.cfg.Seed
	}
	s.engine = New(core.NewRNG(effective))
	if len(s.cfg.InitialFires) == 0 {
		_, s.err = s.engine.InitializeRandom(s.cfg.Rows, s.cfg.Cols, s.cfg.Probability)
	} else {
		_, s.err = s.engine.Initialize(s.cfg)
	}
	s.rebuildDisplay()
}

// Err returns the error of the last Reset, if the run could not start.
func (s *Sim) Err() error { return s.err }

// Step advances the current run by one generation.
func (s *Sim) Step() {
	s.engine.Step()
	s.rebuildDisplay()
}

// Parameters describes the run configuration and live counters.
func (s *Sim) Parameters() core.ParameterSnapshot {
	stats := s.engine.Stats()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("rows", "Rows", s.cfg.Rows),
				intParam("cols", "Cols", s.cfg.Cols),
				{Key: "seed", Label: "Seed", Type: core.ParamTypeInt, Value: strconv.FormatInt(s.cfg.Seed, 10)},
			},
		},
		{
			Name: "Fire",
			Params: []core.Parameter{
				floatParam("p", "Propagation probability", s.cfg.Probability),
			},
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				intParam("step", "Step", s.engine.StepIndex()),
				intParam("forest", "Forest", stats.Forest),
				intParam("fire", "Fire", stats.Fire),
				intParam("ash", "Ash", stats.Ash),
			},
		},
	}}
}

// Probability returns the propagation probability the next Reset will use.
func (s *Sim) Probability() float64 { return s.cfg.Probability }

// SetFloatParameter updates the propagation probability used by the next
// Reset. The running simulation keeps its probability.
func (s *Sim) SetFloatParameter(key string, value float64) bool {
	if key != "p" || math.IsNaN(value) {
		return false
	}
	s.cfg.Probability = min(max(value, 0), 1)
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(value)}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func init() {
	core.Register("forestfire", func(cfg map[string]string) (core.Sim, error) {
		sim, err := NewSim(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return sim, nil
	})
}
