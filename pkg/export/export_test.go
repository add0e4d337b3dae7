package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func occurrenceDataset() Dataset {
	return Dataset{
		Title:   "Timetable tt-1",
		Headers: []string{"date", "period", "class"},
		Rows: []map[string]string{
			{"date": "2024-10-28", "period": "p1", "class": "c-1"},
			{"date": "2024-10-30", "period": "p2", "class": "c-2"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(occurrenceDataset())
	require.NoError(t, err)

	assert.Equal(t, "date,period,class\n2024-10-28,p1,c-1\n2024-10-30,p2,c-2\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(occurrenceDataset())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
