package scheduler

import (
	"fmt"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// weekTimetable builds a timetable with day ids d0..dN and period ids p0..pM.
func weekTimetable(days []string, periods int) models.Timetable {
	tt := models.Timetable{
		ID:        "tt-1",
		StartDate: time.Date(2024, 10, 28, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 11, 8, 0, 0, 0, 0, time.UTC),
	}
	for i, name := range days {
		tt.Days = append(tt.Days, models.TimetableDay{ID: fmt.Sprintf("d%d", i), TimetableID: tt.ID, DayOfWeek: name})
	}
	for i := 0; i < periods; i++ {
		tt.Periods = append(tt.Periods, models.TimetablePeriod{
			ID:        fmt.Sprintf("p%d", i),
			StartTime: fmt.Sprintf("%02d:00", 7+i),
			EndTime:   fmt.Sprintf("%02d:45", 7+i),
		})
	}
	return tt
}

func strPtr(v string) *string { return &v }

func pref(day, period int) models.ClassPeriodPreference {
	return models.ClassPeriodPreference{DayID: fmt.Sprintf("d%d", day), PeriodID: fmt.Sprintf("p%d", period)}
}
