package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the scheduler.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	schedulerRuns        *prometheus.CounterVec
	schedulerAttempts    prometheus.Histogram
	schedulerDuration    prometheus.Histogram
	occurrencesGenerated prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	schedulerRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Timetable generation runs by outcome",
	}, []string{"outcome"})

	schedulerAttempts := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_run_attempts",
		Help:    "Failed placements consumed per generation run",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 75, 100},
	})

	schedulerDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_run_duration_seconds",
		Help:    "Wall time of generation runs including persistence",
		Buckets: prometheus.DefBuckets,
	})

	occurrencesGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_occurrences_generated_total",
		Help: "Dated class occurrences written by successful runs",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, schedulerRuns, schedulerAttempts, schedulerDuration, occurrencesGenerated, goroutines)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		schedulerRuns:        schedulerRuns,
		schedulerAttempts:    schedulerAttempts,
		schedulerDuration:    schedulerDuration,
		occurrencesGenerated: occurrencesGenerated,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSchedulerRun records one generation run.
func (m *MetricsService) ObserveSchedulerRun(outcome string, attempts int, duration time.Duration, occurrences int) {
	if m == nil {
		return
	}
	m.schedulerRuns.WithLabelValues(outcome).Inc()
	m.schedulerAttempts.Observe(float64(attempts))
	m.schedulerDuration.Observe(duration.Seconds())
	if occurrences > 0 {
		m.occurrencesGenerated.Add(float64(occurrences))
	}
}
