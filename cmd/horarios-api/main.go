package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/horarios-api/api/swagger"
	"github.com/noah-isme/horarios-api/internal/handler"
	"github.com/noah-isme/horarios-api/internal/repository"
	"github.com/noah-isme/horarios-api/internal/router"
	"github.com/noah-isme/horarios-api/internal/service"
	"github.com/noah-isme/horarios-api/pkg/cache"
	"github.com/noah-isme/horarios-api/pkg/config"
	"github.com/noah-isme/horarios-api/pkg/database"
	"github.com/noah-isme/horarios-api/pkg/logger"
)

// @title Horarios API
// @version 1.0.0
// @description Professor time-slot preference collection
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logr.Info("schema applied")
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	settings := service.ScheduleSettings{
		Days:        cfg.Schedule.Days,
		PriorityMax: cfg.Schedule.PriorityMax,
		CacheTTL:    cfg.Schedule.CacheTTL,
	}

	professorRepo := repository.NewProfessorRepository(db)
	personRepo := repository.NewPersonRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	priorityRepo := repository.NewPriorityRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, repository.CacheKeyPrefix)
	sessionRepo := repository.NewSessionRepository(redisClient)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Schedule.CacheTTL, logr, redisClient != nil)
	auditSvc := service.NewAuditService(auditRepo, logr)
	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	sessionSvc := service.NewSessionService(sessionRepo, service.SessionConfig{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
	}, logr)
	authSvc := service.NewAuthService(sessionSvc, auditSvc, metrics, logr, service.AuthConfig{
		TokenSecret:       cfg.Auth.TokenSecret,
		Audience:          cfg.Auth.Audience,
		RequireAudience:   cfg.Auth.RequireAudience,
		RequireExpiration: cfg.Auth.RequireExpiration,
	})
	assignmentSvc := service.NewAssignmentService(professorRepo, scheduleRepo, catalogRepo, cacheSvc, metrics, settings, logr)
	preferenceSvc := service.NewPreferenceService(priorityRepo, assignmentSvc, cacheSvc, auditSvc, metrics, settings, validate, logr)
	exportSvc := service.NewExportService(priorityRepo, assignmentSvc, auditSvc, settings, logr)
	adminSvc := service.NewAdminService(personRepo, professorRepo, auditSvc, validate, logr, service.AdminConfig{
		TokenSecret: cfg.Admin.TokenSecret,
		TokenTTL:    cfg.Admin.TokenTTL,
	})

	engine := router.New(router.Handlers{
		Auth: handler.NewAuthHandler(authSvc, handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
			TTL:    sessionSvc.TTL(),
		}),
		Preference: handler.NewPreferenceHandler(preferenceSvc),
		Catalog:    handler.NewCatalogHandler(assignmentSvc),
		Admin:      handler.NewAdminHandler(adminSvc, preferenceSvc, assignmentSvc, exportSvc, metrics),
		Health:     handler.NewHealthHandler(db, metrics),
	}, router.Options{
		Sessions:       sessionSvc,
		Auth:           authSvc,
		Admin:          adminSvc,
		Metrics:        metrics,
		Logger:         logr,
		CookieName:     cfg.Session.CookieName,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
		EnableDocs:     cfg.Env != config.EnvProduction,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
