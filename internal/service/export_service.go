package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

// Supported export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type occurrenceLister interface {
	ListByTimetable(ctx context.Context, timetableID string) ([]models.ClassOccurrence, error)
}

type datasetRenderer interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset) ([]byte, error)
}

// ExportedFile is a rendered export ready to stream.
type ExportedFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// OccurrenceExportService renders stored occurrences as CSV or PDF.
type OccurrenceExportService struct {
	timetables  timetableReader
	classes     classLister
	occurrences occurrenceLister
	renderers   map[string]datasetRenderer
	logger      *zap.Logger
}

// NewOccurrenceExportService constructs an OccurrenceExportService.
func NewOccurrenceExportService(timetables timetableReader, classes classLister, occurrences occurrenceLister, logger *zap.Logger) *OccurrenceExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OccurrenceExportService{
		timetables:  timetables,
		classes:     classes,
		occurrences: occurrences,
		renderers: map[string]datasetRenderer{
			ExportFormatCSV: export.NewCSVExporter(),
			ExportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// Export renders the timetable's occurrences in format. An empty format means CSV.
func (s *OccurrenceExportService) Export(ctx context.Context, timetableID, format string) (*ExportedFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	tt, err := s.timetables.FindByID(ctx, timetableID)
	if err != nil {
		return nil, mapTimetableErr(err)
	}
	classes, err := s.classes.ListByTimetable(ctx, timetableID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	occurrences, err := s.occurrences.ListByTimetable(ctx, timetableID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list occurrences")
	}

	body, err := renderer.Render(OccurrenceDataset(*tt, classes, occurrences))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Debug("occurrence export rendered",
		zap.String("timetable_id", timetableID),
		zap.String("format", format),
		zap.Int("rows", len(occurrences)),
	)
	return &ExportedFile{
		Filename:    fmt.Sprintf("timetable_%s_occurrences.%s", sanitizeFilename(tt.ID), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// OccurrenceDataset lays occurrences out as export rows, one per dated meeting.
func OccurrenceDataset(tt models.Timetable, classes []models.Class, occurrences []models.ClassOccurrence) export.Dataset {
	periods := make(map[string]models.TimetablePeriod, len(tt.Periods))
	for _, p := range tt.Periods {
		periods[p.ID] = p
	}
	byID := make(map[string]models.Class, len(classes))
	for _, c := range classes {
		byID[c.ID] = c
	}

	title := tt.Name
	if title == "" {
		title = tt.ID
	}
	data := export.Dataset{
		Title:   "Timetable " + title,
		Headers: []string{"Date", "Day", "Start", "End", "Class", "Course", "Teacher"},
	}
	for _, occ := range occurrences {
		period := periods[occ.PeriodID]
		class := byID[occ.ClassID]
		teacher := ""
		if class.TeacherID != nil {
			teacher = *class.TeacherID
		}
		data.Rows = append(data.Rows, map[string]string{
			"Date":    occ.Date.Format("2006-01-02"),
			"Day":     occ.Date.Weekday().String(),
			"Start":   period.StartTime,
			"End":     period.EndTime,
			"Class":   occ.ClassID,
			"Course":  class.CourseID,
			"Teacher": teacher,
		})
	}
	return data
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, raw)
	if len(cleaned) > 100 {
		return cleaned[:100]
	}
	return cleaned
}
