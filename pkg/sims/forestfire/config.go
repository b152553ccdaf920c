package forestfire

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidDimensions is returned for grids without a positive row and
	// column count.
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
	// ErrInvalidProbability is returned for probabilities outside [0, 1].
	ErrInvalidProbability = errors.New("propagation probability must be within [0, 1]")
)

// Config describes a single simulation run.
type Config struct {
	Rows         int
	Cols         int
	InitialFires []Position
	Probability  float64

	// Seed feeds the RNG used by the CLI and GUI. Zero means time based.
	Seed int64
}

// DefaultConfig returns the standard 6x6 board with a single fire at (2, 2).
func DefaultConfig() Config {
	return Config{
		Rows:         6,
		Cols:         6,
		InitialFires: []Position{{Row: 2, Col: 2}},
		Probability:  0.75,
	}
}

// Validate checks the dimensions and probability. Fire positions are not
// checked: out-of-bounds seeds are ignored at initialization.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, c.Rows, c.Cols)
	}
	if math.IsNaN(c.Probability) || c.Probability < 0 || c.Probability > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidProbability, c.Probability)
	}
	return nil
}

type configDocument struct {
	GridDimensions struct {
		NumRows int `json:"numRows"`
		NumCols int `json:"numCols"`
	} `json:"gridDimensions"`
	InitialFirePositions   []Position `json:"initialFirePositions"`
	PropagationProbability float64    `json:"propagationProbability"`
	Seed                   int64      `json:"seed,omitempty"`
}

// MarshalJSON encodes the configuration document shape.
func (c Config) MarshalJSON() ([]byte, error) {
	var doc configDocument
	doc.GridDimensions.NumRows = c.Rows
	doc.GridDimensions.NumCols = c.Cols
	doc.InitialFirePositions = c.InitialFires
	if doc.InitialFirePositions == nil {
		doc.InitialFirePositions = []Position{}
	}
	doc.PropagationProbability = c.Probability
	doc.Seed = c.Seed
	return json.Marshal(doc)
}

// UnmarshalJSON decodes the configuration document shape.
func (c *Config) UnmarshalJSON(data []byte) error {
	var doc configDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*c = Config{
		Rows:         doc.GridDimensions.NumRows,
		Cols:         doc.GridDimensions.NumCols,
		InitialFires: doc.InitialFirePositions,
		Probability:  doc.PropagationProbability,
		Seed:         doc.Seed,
	}
	return nil
}

// DecodeConfig reads and validates a JSON configuration document.
func DecodeConfig(r io.Reader) (Config, error) {
	var c Config
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Malformed values are ignored and leave the default in place.
func FromMap(cfg map[string]string) Config {
	return DefaultConfig().Override(cfg)
}

// Override returns a copy of c with the keys of cfg applied on top. It accepts
// the same keys as FromMap; malformed values leave c's value in place.
func (c Config) Override(cfg map[string]string) Config {
	c.InitialFires = append([]Position(nil), c.InitialFires...)
	if cfg == nil {
		return c
	}
	if v, ok := cfg["rows"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Rows = parsed
		}
	}
	if v, ok := cfg["cols"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Cols = parsed
		}
	}
	if v, ok := cfg["p"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Probability = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["fires"]; ok {
		if parsed, err := ParsePositions(v); err == nil {
			c.InitialFires = parsed
		}
	}
	return c
}

// ParsePositions parses "row:col" pairs separated by ';', for example
// "2:2;0:5". An empty string yields no positions.
func ParsePositions(s string) ([]Position, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []Position
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rs, cs, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("position %q: want row:col", part)
		}
		row, err := strconv.Atoi(strings.TrimSpace(rs))
		if err != nil {
			return nil, fmt.Errorf("position %q: row: %w", part, err)
		}
		col, err := strconv.Atoi(strings.TrimSpace(cs))
		if err != nil {
			return nil, fmt.Errorf("position %q: col: %w", part, err)
		}
		out = append(out, Position{Row: row, Col: col})
	}
	return out, nil
}
