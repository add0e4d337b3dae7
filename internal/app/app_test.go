package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		JWT:       config.JWTConfig{Secret: "secret"},
		Scheduler: config.SchedulerConfig{
			Enabled:      true,
			MaxAttempts:  10,
			LockTTL:      time.Minute,
			RunStatusTTL: time.Hour,
			AsyncWorkers: 1,
		},
	}
}

func newTestServices(t *testing.T, cfg *config.Config) (*Services, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	s := build(cfg, zap.NewNop(), sqlx.NewDb(db, "sqlmock"), nil)
	t.Cleanup(func() {
		mock.ExpectClose()
		assert.NoError(t, s.Close())
	})
	return s, mock
}

func TestBuildWithoutRedis(t *testing.T) {
	s, _ := newTestServices(t, testConfig())

	assert.NotNil(t, s.Generator)
	assert.NotNil(t, s.Exporter)
	require.NotNil(t, s.Queue)

	checks := s.ReadinessChecks()
	assert.Contains(t, checks, "postgres")
	assert.NotContains(t, checks, "redis")
}

func TestBuildWithoutWorkers(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler.AsyncWorkers = 0
	s, _ := newTestServices(t, cfg)

	assert.Nil(t, s.Queue)
}

func TestRouterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	s, _ := newTestServices(t, cfg)
	router := NewRouter(cfg, zap.NewNop(), s)

	admin, _, err := s.Tokens.IssueToken("u1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"health", "/health", "", http.StatusOK},
		{"ready", "/ready", "", http.StatusOK},
		{"metrics", "/metrics", "", http.StatusOK},
		{"protected without token", "/api/v1/timetables/tt-1/generation", "", http.StatusUnauthorized},
		{"no run recorded yet", "/api/v1/timetables/tt-1/generation", admin, http.StatusNotFound},
		{"unknown route", "/api/v1/nope", admin, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
