package forestfire

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Grid stores cell states in row-major order. Grids returned by this package
// are snapshots: nothing writes to them once they have been handed out.
type Grid struct {
	rows, cols int
	cells      []State
}

// NewGrid allocates a rows x cols grid with every cell set to Forest.
func NewGrid(rows, cols int) *Grid {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Grid{rows: rows, cols: cols, cells: make([]State, rows*cols)}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// At returns the state at (row, col). Out-of-bounds lookups report Forest and
// false.
func (g *Grid) At(row, col int) (State, bool) {
	if !g.InBounds(row, col) {
		return Forest, false
	}
	return g.cells[row*g.cols+col], true
}

// Count returns how many cells hold the given state.
func (g *Grid) Count(s State) int {
	n := 0
	for _, c := range g.cells {
		if c == s {
			n++
		}
	}
	return n
}

// States returns a copy of the cells in row-major order.
func (g *Grid) States() []State {
	return append([]State(nil), g.cells...)
}

// Equal reports whether both grids have the same shape and states.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i, c := range g.cells {
		if o.cells[i] != c {
			return false
		}
	}
	return true
}

// FromStates builds a grid from row-major states. It returns nil when the
// slice length does not match the dimensions.
func FromStates(rows, cols int, states []State) *Grid {
	if rows < 0 || cols < 0 || len(states) != rows*cols {
		return nil
	}
	return &Grid{rows: rows, cols: cols, cells: append([]State(nil), states...)}
}

func (g *Grid) set(row, col int, s State) {
	g.cells[row*g.cols+col] = s
}

func (g *Grid) clone() *Grid {
	return &Grid{rows: g.rows, cols: g.cols, cells: append([]State(nil), g.cells...)}
}
