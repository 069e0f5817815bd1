package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/moovefit/session-gateway/docs"
	"github.com/moovefit/session-gateway/internal/api/handler"
	"github.com/moovefit/session-gateway/internal/api/middleware"
	"github.com/moovefit/session-gateway/internal/core/ports"
	"github.com/moovefit/session-gateway/internal/core/service"
)

// Deps carries everything the router wires together.
type Deps struct {
	Sessions ports.SessionManager
	Store    ports.CredentialStore
	Profile  ports.ProfileClient
	Notifier ports.Notifier
	Guard    *service.Guard

	// Redis/Mongo are probed by the readiness endpoint; either may be nil.
	Redis *redis.Client
	Mongo *mongo.Database

	ContextSecret string
	Upstream      string
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("session_gateway"))

	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Operational endpoints (outside the browsing-context scope) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Redis, d.Mongo)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Session surface ---
	browsing := middleware.BrowsingContext(d.ContextSecret)

	sessionHandler := handler.NewSessionHandler(d.Sessions, d.Profile, d.Notifier, d.Guard.Table().PublicEntry, d.Log)
	tokenHandler := handler.NewTokenHandler(d.Store)
	toastHandler := handler.NewToastHandler(d.Notifier)

	s := e.Group("/session", browsing)
	s.GET("", sessionHandler.Current)
	s.POST("/login", sessionHandler.Login)
	s.POST("/login-link", sessionHandler.LoginLink)
	s.POST("/logout", sessionHandler.Logout)
	s.PATCH("/user", sessionHandler.UpdateUser)
	s.GET("/token", tokenHandler.Stored)
	s.DELETE("/token", tokenHandler.Clear)
	s.GET("/toasts", toastHandler.Pending)
	s.POST("/toasts/:id/dismiss", toastHandler.Dismiss)

	// --- Guarded application routes ---
	appHandler, err := handler.NewAppHandler(d.Upstream)
	if err != nil {
		return nil, err
	}

	guarded := e.Group("", browsing, middleware.Guard(d.Sessions, d.Guard, d.Notifier, d.Log))
	guarded.Any("/*", appHandler.Serve)
	guarded.Any("/", appHandler.Serve)

	return e, nil
}
