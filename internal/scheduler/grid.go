package scheduler

import (
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

var weekdayNames = map[string]time.Weekday{
	"MONDAY":    time.Monday,
	"MON":       time.Monday,
	"TUESDAY":   time.Tuesday,
	"TUE":       time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"WED":       time.Wednesday,
	"THURSDAY":  time.Thursday,
	"THU":       time.Thursday,
	"FRIDAY":    time.Friday,
	"FRI":       time.Friday,
	"SATURDAY":  time.Saturday,
	"SAT":       time.Saturday,
	"SUNDAY":    time.Sunday,
	"SUN":       time.Sunday,
}

// ParseWeekday maps a day label ("Monday", "mon", "WEDNESDAY") to a weekday.
func ParseWeekday(label string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToUpper(strings.TrimSpace(label))]
	return wd, ok
}

// weekdayRank orders weekdays Monday first, Sunday last.
func weekdayRank(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// Grid is the weekly day × period frame of a timetable. Day and period
// indices used by matrices refer to positions in Days and Periods.
type Grid struct {
	Days    []models.TimetableDay
	Periods []models.TimetablePeriod

	dayIndex    map[string]int
	periodIndex map[string]int
}

// NewGrid orders the timetable's days by weekday (Monday first) and periods by
// start time. Days whose label is not a weekday are dropped and reported.
func NewGrid(tt models.Timetable) (Grid, []BuildWarning) {
	var warnings []BuildWarning

	type rankedDay struct {
		day  models.TimetableDay
		rank int
	}
	ranked := make([]rankedDay, 0, len(tt.Days))
	for _, d := range tt.Days {
		wd, ok := ParseWeekday(d.DayOfWeek)
		if !ok {
			warnings = append(warnings, BuildWarning{
				Kind:    WarnUnknownDay,
				DayID:   d.ID,
				Message: "timetable day has unrecognised day of week " + d.DayOfWeek,
			})
			continue
		}
		ranked = append(ranked, rankedDay{day: d, rank: weekdayRank(wd)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].rank != ranked[j].rank {
			return ranked[i].rank < ranked[j].rank
		}
		return ranked[i].day.ID < ranked[j].day.ID
	})

	periods := make([]models.TimetablePeriod, len(tt.Periods))
	copy(periods, tt.Periods)
	sort.SliceStable(periods, func(i, j int) bool {
		a, b := clockMinutes(periods[i].StartTime), clockMinutes(periods[j].StartTime)
		if a != b {
			return a < b
		}
		return periods[i].ID < periods[j].ID
	})

	g := Grid{
		Days:        make([]models.TimetableDay, 0, len(ranked)),
		Periods:     periods,
		dayIndex:    make(map[string]int, len(ranked)),
		periodIndex: make(map[string]int, len(periods)),
	}
	for i, rd := range ranked {
		g.Days = append(g.Days, rd.day)
		g.dayIndex[rd.day.ID] = i
	}
	for i, p := range periods {
		g.periodIndex[p.ID] = i
	}
	return g, warnings
}

// NumDays returns the number of grid rows.
func (g Grid) NumDays() int { return len(g.Days) }

// NumPeriods returns the number of grid columns.
func (g Grid) NumPeriods() int { return len(g.Periods) }

// DayIndex resolves a timetable day id to its row, or -1.
func (g Grid) DayIndex(dayID string) int {
	if idx, ok := g.dayIndex[dayID]; ok {
		return idx
	}
	return -1
}

// PeriodIndex resolves a timetable period id to its column, or -1.
func (g Grid) PeriodIndex(periodID string) int {
	if idx, ok := g.periodIndex[periodID]; ok {
		return idx
	}
	return -1
}

// DayID returns the day id at row idx, or "" when out of range.
func (g Grid) DayID(idx int) string {
	if idx < 0 || idx >= len(g.Days) {
		return ""
	}
	return g.Days[idx].ID
}

// PeriodID returns the period id at column idx, or "" when out of range.
func (g Grid) PeriodID(idx int) string {
	if idx < 0 || idx >= len(g.Periods) {
		return ""
	}
	return g.Periods[idx].ID
}

// clockMinutes parses "15:04" or "15:04:05". Unparseable values sort last.
func clockMinutes(raw string) int {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Hour()*60 + t.Minute()
		}
	}
	return 24 * 60
}
