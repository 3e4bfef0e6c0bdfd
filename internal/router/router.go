// Package router mounts every HTTP route on a gin engine.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/horarios-api/internal/handler"
	"github.com/noah-isme/horarios-api/internal/middleware"
	"github.com/noah-isme/horarios-api/internal/models"
	"github.com/noah-isme/horarios-api/internal/service"
	"github.com/noah-isme/horarios-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/horarios-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/horarios-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers served by the engine.
type Handlers struct {
	Auth       *handler.AuthHandler
	Preference *handler.PreferenceHandler
	Catalog    *handler.CatalogHandler
	Admin      *handler.AdminHandler
	Health     *handler.HealthHandler
}

// Options carries the collaborators used by route middleware.
type Options struct {
	Sessions       *service.SessionService
	Auth           *service.AuthService
	Admin          *service.AdminService
	Metrics        *service.MetricsService
	Logger         *zap.Logger
	CookieName     string
	AllowedOrigins []string
	MetricsEnabled bool
	EnableDocs     bool
}

// New builds the engine with the shared middleware chain and every route.
func New(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(opts.Logger))
	r.Use(corsmiddleware.New(opts.AllowedOrigins))
	if opts.MetricsEnabled {
		r.Use(middleware.Metrics(opts.Metrics, "/metrics", "/health", "/ready"))
	}

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)
	if opts.MetricsEnabled {
		r.GET("/metrics", h.Health.Prometheus)
	}
	if opts.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireSession := middleware.Session(opts.Sessions, opts.Auth, opts.CookieName)

	r.GET("/", h.Auth.Entry)
	r.GET("/auth", h.Auth.Token)
	r.POST("/logout", middleware.OptionalSession(opts.Sessions, opts.CookieName), h.Auth.Logout)

	r.GET("/preferences", requireSession, h.Preference.Get)
	r.POST("/submit", requireSession, h.Preference.Submit)

	api := r.Group("/api", requireSession)
	api.GET("/blocks", h.Catalog.Blocks)
	api.GET("/subjects", h.Catalog.Subjects)
	api.GET("/shifts", h.Catalog.Shifts)
	api.GET("/assignments", h.Catalog.Assignments)

	r.POST("/admin/login", h.Admin.Login)
	admin := r.Group("/admin", middleware.JWT(opts.Admin), middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/professors", h.Admin.Professors)
	admin.GET("/professors/:id/preferences", h.Admin.ProfessorPreferences)
	admin.GET("/professors/:id/export", h.Admin.ExportProfessor)
	admin.GET("/preferences/export", h.Admin.ExportAll)
	admin.GET("/metrics", h.Admin.Metrics)

	return r
}
