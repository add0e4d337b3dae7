package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func newExportFixture(stored []models.ClassOccurrence) *OccurrenceExportService {
	tt := models.Timetable{
		ID:      "tt-1",
		Name:    "Semester 1",
		Periods: []models.TimetablePeriod{{ID: "p0", StartTime: "07:00", EndTime: "07:45"}},
	}
	classes := []models.Class{{ID: "c1", CourseID: "MATH", TeacherID: strPtr("t1"), Frequency: 1, Length: 1}}
	return NewOccurrenceExportService(
		timetableStub{items: map[string]models.Timetable{tt.ID: tt}},
		classStub{items: classes},
		&occurrenceStoreSpy{stored: stored},
		nil,
	)
}

func TestOccurrenceExportServiceCSV(t *testing.T) {
	svc := newExportFixture([]models.ClassOccurrence{
		{ClassID: "c1", Date: time.Date(2024, 10, 28, 0, 0, 0, 0, time.UTC), PeriodID: "p0"},
	})

	file, err := svc.Export(context.Background(), "tt-1", "")
	require.NoError(t, err)

	assert.Equal(t, "timetable_tt-1_occurrences.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Day,Start,End,Class,Course,Teacher", lines[0])
	assert.Equal(t, "2024-10-28,Monday,07:00,07:45,c1,MATH,t1", lines[1])
}

func TestOccurrenceExportServicePDF(t *testing.T) {
	svc := newExportFixture([]models.ClassOccurrence{
		{ClassID: "c1", Date: time.Date(2024, 10, 30, 0, 0, 0, 0, time.UTC), PeriodID: "p0"},
	})

	file, err := svc.Export(context.Background(), "tt-1", "PDF")
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestOccurrenceExportServiceErrors(t *testing.T) {
	svc := newExportFixture(nil)

	_, err := svc.Export(context.Background(), "tt-1", "xlsx")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Export(context.Background(), "missing", "csv")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "term_1_2024", sanitizeFilename("term/1 2024"))
}
