package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-timetable-api/internal/service"
)

func newMetricsRouter(h *MetricsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
	return r
}

func TestMetricsHandlerReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	healthy := newMetricsRouter(NewMetricsHandler(nil, map[string]ReadinessCheck{"postgres": ok}))
	assert.Equal(t, http.StatusOK, serve(healthy, http.MethodGet, "/ready").Code)

	failing := newMetricsRouter(NewMetricsHandler(nil, map[string]ReadinessCheck{"postgres": ok, "redis": down}))
	w := serve(failing, http.MethodGet, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, serve(newMetricsRouter(NewMetricsHandler(nil, nil)), http.MethodGet, "/metrics").Code)

	r := newMetricsRouter(NewMetricsHandler(service.NewMetricsService(), nil))
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/metrics").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/health").Code)
}
