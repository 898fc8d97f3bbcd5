package api

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gatherly/events-api/internal/api/handler"
	"github.com/gatherly/events-api/internal/api/middleware"
	"github.com/gatherly/events-api/internal/core/service"
	"github.com/gatherly/events-api/internal/infrastructure/config"
	"github.com/gatherly/events-api/internal/infrastructure/db/postgres"
	"github.com/gatherly/events-api/internal/infrastructure/db/redis"
	"github.com/gatherly/events-api/internal/infrastructure/storage"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(pool *pgxpool.Pool, rdb *goredis.Client, images *storage.LocalStore, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	// Rejects oversized bodies before a handler reads them, so the image
	// size check never has to consume an arbitrarily large upload first.
	e.Use(echomiddleware.BodyLimit(cfg.BodyLimit))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("events"))

	// --- Dependencies ---
	authRepo := postgres.NewAuthRepository(pool)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)
	authHandler := handler.NewAuthHandler(authService)

	eventRepo := postgres.NewEventRepository(pool)
	eventService := service.NewEventService(eventRepo, images, log)
	eventHandler := handler.NewEventHandler(eventService, images, log)

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	authLimiter := middleware.RateLimit(
		redis.NewFixedWindowLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		log,
	)

	// --- Auth routes (rate limited to slow credential stuffing) ---
	auth := e.Group("/auth", authLimiter)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)

	// --- Event routes ---
	e.GET("/events", eventHandler.List)
	e.GET("/events/:id", eventHandler.Get)
	e.POST("/events", eventHandler.Create, authMiddleware)
	e.PUT("/events/:id", eventHandler.Update, authMiddleware)
	e.DELETE("/events/:id", eventHandler.Delete, authMiddleware)

	// --- Registration routes ---
	e.POST("/events/:id/register", eventHandler.Register, authMiddleware)
	e.DELETE("/events/:id/register", eventHandler.Unregister, authMiddleware)
	e.GET("/events/:id/attendees", eventHandler.Attendees, authMiddleware)
	e.GET("/events/:id/registration-status", eventHandler.RegistrationStatus, authMiddleware)
	e.GET("/events/user/registrations", eventHandler.UserRegistrations, authMiddleware)

	// --- Static assets (uploaded event images) ---
	e.Static("/images", cfg.Upload.Dir)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "events API"})
	})
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
