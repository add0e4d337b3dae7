package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Enqueue(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.EnqueueScheduleResponse, error)
	LatestRun(ctx context.Context, timetableID string) (*models.GenerationRun, error)
	ListOccurrences(ctx context.Context, timetableID string) ([]models.ClassOccurrence, error)
}

type occurrenceExporter interface {
	Export(ctx context.Context, timetableID, format string) (*service.ExportedFile, error)
}

// ScheduleGeneratorHandler exposes timetable generation endpoints.
type ScheduleGeneratorHandler struct {
	service   scheduleGenerator
	exporter  occurrenceExporter
	validator *validator.Validate
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(svc *service.ScheduleGeneratorService, exporter *service.OccurrenceExportService) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc, exporter: exporter, validator: validator.New()}
}

// Generate godoc
// @Summary Generate timetable occurrences
// @Description Runs the scheduling engine for the timetable and replaces its stored occurrences. With async=true the run is queued and 202 is returned.
// @Tags Scheduler
// @Produce json
// @Param id path string true "Timetable ID"
// @Param async query bool false "Queue the run instead of waiting for it"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetables/{id}/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	req := dto.GenerateScheduleRequest{TimetableID: c.Param("id")}
	if raw := c.Query("async"); raw != "" {
		async, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "async must be a boolean"))
			return
		}
		req.Async = async
	}

	if req.Async {
		queued, err := h.service.Enqueue(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, queued)
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// LatestRun godoc
// @Summary Latest generation run
// @Tags Scheduler
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id}/generation [get]
func (h *ScheduleGeneratorHandler) LatestRun(c *gin.Context) {
	run, err := h.service.LatestRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run)
}

// ListOccurrences godoc
// @Summary List generated occurrences
// @Tags Scheduler
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetables/{id}/occurrences [get]
func (h *ScheduleGeneratorHandler) ListOccurrences(c *gin.Context) {
	occurrences, err := h.service.ListOccurrences(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrences, map[string]interface{}{"total": len(occurrences)})
}

// ExportOccurrences godoc
// @Summary Export generated occurrences
// @Tags Scheduler
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Timetable ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /timetables/{id}/occurrences/export [get]
func (h *ScheduleGeneratorHandler) ExportOccurrences(c *gin.Context) {
	var query dto.OccurrenceExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "format must be csv or pdf"))
		return
	}

	file, err := h.exporter.Export(c.Request.Context(), c.Param("id"), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
