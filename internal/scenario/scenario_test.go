package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
)

func TestLoadWeek(t *testing.T) {
	sc, err := Load("testdata/week.yaml")
	require.NoError(t, err)

	assert.Equal(t, "two classes sharing a teacher", sc.Name)
	require.Len(t, sc.Timetable.Days, 2)
	assert.Equal(t, "WEDNESDAY", sc.Timetable.Days[1].DayOfWeek)
	require.Len(t, sc.Teachers, 1)
	assert.True(t, sc.Teachers[0].Active)
	assert.Equal(t, "Siti Rahma", sc.Teachers[0].FullName)
	require.Len(t, sc.Classes, 2)
	require.NotNil(t, sc.Classes[0].TeacherID)
	assert.Equal(t, "t1", *sc.Classes[0].TeacherID)
	assert.Len(t, sc.Classes[0].Preferences, 2)
	assert.Empty(t, sc.Classes[1].Preferences)
}

func TestRunWeek(t *testing.T) {
	sc, err := Load("testdata/week.yaml")
	require.NoError(t, err)

	res, err := sc.Run(nil)
	require.NoError(t, err)

	assert.Equal(t, scheduler.OutcomeScheduled, res.Run.Outcome)
	assert.Empty(t, res.Warnings)
	require.Len(t, res.Run.Assignments, 3)

	type got struct{ class, date, period string }
	var occ []got
	for _, o := range res.Occurrences {
		occ = append(occ, got{o.ClassID, o.Date.Format("2006-01-02"), o.PeriodID})
	}
	assert.Equal(t, []got{
		{"math-10a", "2024-10-28", "p1"},
		{"phys-10a", "2024-10-28", "p2"},
		{"math-10a", "2024-10-30", "p1"},
	}, occ)
}

func TestRunContendedExhausts(t *testing.T) {
	sc, err := Load("testdata/contended.yaml")
	require.NoError(t, err)

	res, err := sc.Run(nil)
	require.NoError(t, err)

	assert.Equal(t, scheduler.OutcomeExhausted, res.Run.Outcome)
	assert.Equal(t, 5, res.Run.Attempts)
	assert.Empty(t, res.Occurrences)
	assert.Equal(t, "scenario", res.Timetable.ID)
}

func TestRunRejectsBadDates(t *testing.T) {
	sc, err := Parse([]byte("timetable:\n  startDate: 28/10/2024\n  endDate: \"2024-11-01\"\n"))
	require.NoError(t, err)

	_, err = sc.Run(nil)
	assert.ErrorContains(t, err, "startDate")
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("classes: [unterminated"))
	assert.Error(t, err)

	_, err = Load("testdata/missing.yaml")
	assert.Error(t, err)
}
