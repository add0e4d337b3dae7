package scheduler

import (
	"sort"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// Project replicates the weekly assignments onto every matching date between
// tt.StartDate and tt.EndDate inclusive. The result is ordered by date, then
// by day id, then by assignment order. It depends only on its
// inputs.
func Project(tt models.Timetable, assignments []AbstractAssignment) []models.ClassOccurrence {
	start, end := dateOnly(tt.StartDate), dateOnly(tt.EndDate)
	if len(assignments) == 0 || start.After(end) {
		return []models.ClassOccurrence{}
	}

	days := make([]models.TimetableDay, len(tt.Days))
	copy(days, tt.Days)
	sort.SliceStable(days, func(i, j int) bool { return days[i].ID < days[j].ID })
	byWeekday := make(map[time.Weekday][]string, len(days))
	for _, d := range days {
		if wd, ok := ParseWeekday(d.DayOfWeek); ok {
			byWeekday[wd] = append(byWeekday[wd], d.ID)
		}
	}

	byDay := make(map[string][]AbstractAssignment)
	for _, a := range assignments {
		byDay[a.DayID] = append(byDay[a.DayID], a)
	}

	occurrences := make([]models.ClassOccurrence, 0)
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		for _, dayID := range byWeekday[date.Weekday()] {
			for _, a := range byDay[dayID] {
				occurrences = append(occurrences, models.ClassOccurrence{
					ClassID:  a.ClassID,
					Date:     date,
					PeriodID: a.PeriodID,
				})
			}
		}
	}
	return occurrences
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
