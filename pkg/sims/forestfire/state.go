package forestfire

// State is the value held by a single cell.
type State uint8

const (
	Forest State = iota
	Fire
	Ash
)

// String returns the lower-case state name.
func (s State) String() string {
	if c := s.Class(); c != "" {
		return c
	}
	return "unknown"
}

// Class maps a state to its presentation tag. Unrecognized values map to the
// empty tag.
func (s State) Class() string {
	switch s {
	case Forest:
		return "forest"
	case Fire:
		return "fire"
	case Ash:
		return "ash"
	default:
		return ""
	}
}
