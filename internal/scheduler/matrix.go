package scheduler

const (
	// CellFree marks a free (or preferred) cell.
	CellFree = 0
	// CellBusy marks a busy (or unpreferred) cell.
	CellBusy = 1
)

// Matrix is a rows × cols grid of busy/free cells (days × periods).
// Reads outside the grid report CellBusy and writes outside it are dropped,
// so off-by-one indices coming from id mapping can never free a slot.
type Matrix struct {
	rows  int
	cols  int
	cells []uint8
}

// NewMatrix allocates an all-free matrix. Negative sizes are treated as zero.
func NewMatrix(rows, cols int) Matrix {
	var m Matrix
	m.Reset(rows, cols)
	return m
}

// Rows returns the number of rows (days).
func (m Matrix) Rows() int { return m.rows }

// Cols returns the number of columns (periods).
func (m Matrix) Cols() int { return m.cols }

// Get returns the cell value, or CellBusy when out of range.
func (m Matrix) Get(row, col int) int {
	if !m.inRange(row, col) {
		return CellBusy
	}
	return int(m.cells[row*m.cols+col])
}

// Set stores value at (row, col). Non-zero values are normalised to CellBusy.
func (m *Matrix) Set(row, col, value int) {
	if !m.inRange(row, col) {
		return
	}
	v := uint8(CellFree)
	if value != CellFree {
		v = CellBusy
	}
	m.cells[row*m.cols+col] = v
}

// Reset replaces the backing store with a fresh all-free grid.
func (m *Matrix) Reset(rows, cols int) {
	m.Fill(rows, cols, CellFree)
}

// Fill replaces the backing store with a fresh grid where every cell is value.
func (m *Matrix) Fill(rows, cols, value int) {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	m.rows, m.cols = rows, cols
	m.cells = make([]uint8, rows*cols)
	if value == CellFree {
		return
	}
	for i := range m.cells {
		m.cells[i] = CellBusy
	}
}

func (m Matrix) inRange(row, col int) bool {
	return row >= 0 && col >= 0 && row < m.rows && col < m.cols
}
