package core

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
)

// Parameter describes a single value exposed by a simulation.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures the current set of values exposed by a sim.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// ParametersProvider is implemented by sims that can describe their settings.
type ParametersProvider interface {
	Parameters() ParameterSnapshot
}

// FloatParameterSetter allows HUD interactions to update floating point
// parameters. Implementations may defer the change until the next Reset.
type FloatParameterSetter interface {
	SetFloatParameter(key string, value float64) bool
}
