package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/capacita-api/api/swagger"
	"github.com/noah-isme/capacita-api/internal/handler"
	"github.com/noah-isme/capacita-api/internal/middleware"
	"github.com/noah-isme/capacita-api/internal/models"
	"github.com/noah-isme/capacita-api/internal/repository"
	"github.com/noah-isme/capacita-api/internal/service"
	"github.com/noah-isme/capacita-api/pkg/cache"
	"github.com/noah-isme/capacita-api/pkg/config"
	"github.com/noah-isme/capacita-api/pkg/database"
	"github.com/noah-isme/capacita-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/capacita-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/capacita-api/pkg/middleware/requestid"
	"github.com/noah-isme/capacita-api/pkg/render"
)

// @title Capacita Compliance API
// @version 0.1.0
// @description Training certificate issuance and regulatory reporting
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Caching is an optimization; reports and documents fall back to
		// direct computation without it.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	directoryRepo := repository.NewDirectoryRepository(db)
	tenantProfileRepo := repository.NewTenantProfileRepository(db)
	courseProfileRepo := repository.NewCourseProfileRepository(db)
	recordRepo := repository.NewRecordRepository(db)

	// Services.
	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.JWT)
	certificate := render.NewCertificate(cfg.Renderer.DefaultIssuePlace)

	sequenceSvc := service.NewSequenceService(tenantProfileRepo, metricsSvc, logr, service.SequenceServiceConfig{
		MaxRetries:  cfg.Issuance.MaxSequenceRetries,
		BackoffBase: cfg.Issuance.RetryBackoffBase,
	})
	profileSvc := service.NewProfileService(tenantProfileRepo, courseProfileRepo, directoryRepo, logr)
	recordSvc := service.NewRecordService(recordRepo, logr)
	documentSvc := service.NewDocumentService(recordRepo, certificate, redisClient, metricsSvc, logr, service.DocumentServiceConfig{
		CacheTTL: cfg.Prewarm.DocumentTTL,
	})
	summarySvc := service.NewSummaryService(recordRepo, redisClient, logr, service.SummaryServiceConfig{
		CacheTTL: cfg.Summary.CacheTTL,
	})

	var warmer service.DocumentPrewarmer
	if cfg.Prewarm.Enabled && redisClient != nil {
		prewarm := service.NewPrewarmWorker(documentSvc, cfg.Prewarm.Workers, logr)
		prewarm.Start(context.Background())
		defer prewarm.Stop()
		warmer = prewarm
	}

	issuanceSvc := service.NewIssuanceService(
		directoryRepo, courseProfileRepo, tenantProfileRepo,
		sequenceSvc, recordRepo, warmer, metricsSvc, logr,
		service.IssuanceServiceConfig{DefaultIssuePlace: cfg.Renderer.DefaultIssuePlace},
	)

	// Handlers.
	issuanceHandler := handler.NewIssuanceHandler(issuanceSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	recordHandler := handler.NewRecordHandler(recordSvc, documentSvc)
	summaryHandler := handler.NewSummaryHandler(summarySvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))
	{
		api.POST("/issuance",
			middleware.RequireRoles(models.RoleAdmin, models.RoleIssuer),
			issuanceHandler.Issue)

		records := api.Group("/records")
		{
			records.GET("", recordHandler.List)
			records.GET("/:id", recordHandler.Get)
			records.GET("/:id/document", recordHandler.Document)
			records.POST("/:id/revoke",
				middleware.RequireRoles(models.RoleAdmin),
				recordHandler.Revoke)
		}

		tenants := api.Group("/tenants/:tenantId")
		{
			tenants.GET("/compliance-profile", profileHandler.GetTenantProfile)
			tenants.PUT("/compliance-profile",
				middleware.RequireRoles(models.RoleAdmin),
				profileHandler.UpsertTenantProfile)
			tenants.GET("/courses/:courseId/compliance-profile", profileHandler.GetCourseProfile)
			tenants.PUT("/courses/:courseId/compliance-profile",
				middleware.RequireRoles(models.RoleAdmin),
				profileHandler.UpsertCourseProfile)
			tenants.GET("/enabled-courses", profileHandler.ListEnabledCourses)
			tenants.GET("/summary",
				middleware.RequireRoles(models.RoleAdmin, models.RoleAuditor),
				summaryHandler.Get)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
