package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

// NewRouter mounts every HTTP route on a fresh gin engine.
func NewRouter(cfg *config.Config, logr *zap.Logger, s *Services) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(s.Metrics))

	metricsHandler := handler.NewMetricsHandler(s.Metrics, s.ReadinessChecks())
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	generator := handler.NewScheduleGeneratorHandler(s.Generator, s.Exporter)
	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(s.Tokens), internalmiddleware.RBAC(models.RoleAdmin, models.RoleSuperAdmin))
	{
		timetables := api.Group("/timetables/:id")
		timetables.POST("/generate", generator.Generate)
		timetables.GET("/generation", generator.LatestRun)
		timetables.GET("/occurrences", generator.ListOccurrences)
		timetables.GET("/occurrences/export", generator.ExportOccurrences)
	}

	return r
}
