package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/docsched/clinic-booking-api/api/swagger"
	"github.com/docsched/clinic-booking-api/internal/handler"
	"github.com/docsched/clinic-booking-api/internal/middleware"
	"github.com/docsched/clinic-booking-api/internal/models"
	"github.com/docsched/clinic-booking-api/internal/repository"
	"github.com/docsched/clinic-booking-api/internal/service"
	"github.com/docsched/clinic-booking-api/pkg/cache"
	"github.com/docsched/clinic-booking-api/pkg/config"
	"github.com/docsched/clinic-booking-api/pkg/database"
	"github.com/docsched/clinic-booking-api/pkg/logger"
	corsmiddleware "github.com/docsched/clinic-booking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/docsched/clinic-booking-api/pkg/middleware/requestid"
	"github.com/docsched/clinic-booking-api/pkg/storage"
)

// @title Clinic Booking API
// @version 1.0.0
// @description Appointment scheduling for a single-practitioner clinic
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	presenceRepo := repository.NewPresenceRepository(redisClient)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Clinic.SlotsCacheTTL, logr, cfg.Clinic.CacheEnabled)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	bookingSvc := service.NewBookingService(appointmentRepo, availabilityRepo, cacheSvc, metricsSvc, validate, logr, service.BookingServiceConfig{
		CancelWindow:     cfg.Clinic.CancelWindow,
		PhoneCountryCode: cfg.Clinic.PhoneCountryCode,
		SlotsCacheTTL:    cfg.Clinic.SlotsCacheTTL,
	})
	appointmentSvc := service.NewAppointmentService(appointmentRepo, cacheSvc, validate, logr, cfg.Clinic.CancelWindow, cfg.Clinic.PhoneCountryCode)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, cacheSvc, validate, logr)
	presenceSvc := service.NewPresenceService(presenceRepo, logr)

	bookingHandler := handler.NewBookingHandler(bookingSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	presenceHandler := handler.NewPresenceHandler(presenceSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var archiveSvc *service.ArchiveService
	if cfg.Export.Enabled {
		archiveStore, err := storage.NewLocalStorage(cfg.Export.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init archive storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Export.SignSecret, cfg.Export.ResultTTL)
		archiveSvc = service.NewArchiveService(appointmentRepo, archiveStore, signer, service.ArchiveConfig{
			APIPrefix:   cfg.APIPrefix,
			ResultTTL:   cfg.Export.ResultTTL,
			Workers:     cfg.Export.Workers,
			CountryCode: cfg.Clinic.PhoneCountryCode,
		}, logr)
		archiveSvc.Start(ctx)
		defer archiveSvc.Stop()

		if removed, err := archiveSvc.Cleanup(); err != nil {
			logr.Sugar().Warnw("archive cleanup failed", "error", err)
		} else if len(removed) > 0 {
			logr.Sugar().Infow("stale archives removed", "count", len(removed))
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/days", bookingHandler.Days)
		api.GET("/days/:day/slots", bookingHandler.DaySlots)
		api.POST("/appointments", bookingHandler.Book)
		api.GET("/appointments/lookup", bookingHandler.Lookup)
		api.POST("/appointments/:id/cancel", bookingHandler.Cancel)
		api.GET("/presence", presenceHandler.Get)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
			auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		admin := api.Group("/admin", middleware.JWT(authSvc))
		{
			staff := middleware.RequireRoles(models.RolePractitioner, models.RoleAssistant)
			practitionerOnly := middleware.RequireRoles(models.RolePractitioner)

			admin.GET("/appointments", staff, appointmentHandler.List)
			admin.GET("/appointments/export", staff, appointmentHandler.Export)
			admin.PATCH("/appointments/:id/status", practitionerOnly, appointmentHandler.UpdateStatus)
			admin.DELETE("/appointments/:id", practitionerOnly, appointmentHandler.Delete)

			admin.GET("/availability", staff, availabilityHandler.Week)
			admin.PUT("/availability/:day", practitionerOnly, availabilityHandler.Upsert)

			admin.PUT("/presence", practitionerOnly, presenceHandler.Set)

			if archiveSvc != nil {
				archiveHandler := handler.NewArchiveHandler(archiveSvc)
				admin.POST("/archives", staff, archiveHandler.Create)
				admin.GET("/archives", staff, archiveHandler.List)
				admin.GET("/archives/:id", staff, archiveHandler.Get)
				api.GET("/archives/download/:token", archiveHandler.Download)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
