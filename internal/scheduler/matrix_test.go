package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixBoundsAreFailSafe(t *testing.T) {
	m := NewMatrix(2, 3)

	assert.Equal(t, CellFree, m.Get(1, 2))
	assert.Equal(t, CellBusy, m.Get(-1, 0))
	assert.Equal(t, CellBusy, m.Get(2, 0))
	assert.Equal(t, CellBusy, m.Get(0, 3))

	m.Set(5, 5, CellBusy)
	m.Set(-1, 0, CellBusy)
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			assert.Equal(t, CellFree, m.Get(r, c))
		}
	}
}

func TestMatrixSetNormalisesValues(t *testing.T) {
	m := NewMatrix(1, 2)
	m.Set(0, 0, 7)
	m.Set(0, 1, CellBusy)
	m.Set(0, 1, CellFree)

	assert.Equal(t, CellBusy, m.Get(0, 0))
	assert.Equal(t, CellFree, m.Get(0, 1))
}

func TestMatrixResetReplacesStorage(t *testing.T) {
	m := NewMatrix(2, 2)
	m.Set(0, 0, CellBusy)
	shared := m

	m.Reset(3, 1)

	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 1, m.Cols())
	assert.Equal(t, CellFree, m.Get(0, 0))
	assert.Equal(t, CellBusy, shared.Get(0, 0), "reset must not clear a copy's cells in place")
}

func TestMatrixFillAndNegativeSizes(t *testing.T) {
	var m Matrix
	m.Fill(1, 2, CellBusy)
	assert.Equal(t, CellBusy, m.Get(0, 1))

	neg := NewMatrix(-1, 4)
	assert.Equal(t, 0, neg.Rows())
	assert.Equal(t, CellBusy, neg.Get(0, 0))
}
