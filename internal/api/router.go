package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sirpyerre/admin-console/internal/api/handler"
	"github.com/sirpyerre/admin-console/internal/api/middleware"
	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/core/ports"
)

// Deps are the collaborators the router mounts.
type Deps struct {
	Auth  ports.AuthService
	Audit ports.AuditLog
	// Readiness lists the backends probed by /health/ready.
	Readiness map[string]handler.Pinger
	// Registerer receives HTTP request metrics. Nil disables them and /metrics.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	if d.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: d.Registerer,
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: d.Gatherer,
		}))
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Auth)
	auditHandler := handler.NewAuditHandler(d.Audit)
	session := middleware.Session(d.Auth)
	adminOnly := middleware.RBAC(domain.LevelAdmin)
	staff := middleware.RBAC(domain.LevelAdmin, domain.LevelManager)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, session)
	auth.PATCH("/me", authHandler.UpdateMe, session)

	// --- Console routes (session required) ---
	apiGroup := e.Group("/api", session)
	apiGroup.GET("/users", userHandler.List, staff)
	apiGroup.GET("/users/:id", userHandler.Get, staff)
	apiGroup.POST("/users", userHandler.Create, adminOnly)
	apiGroup.PUT("/users/:id", userHandler.Update, adminOnly)
	apiGroup.DELETE("/users/:id", userHandler.Delete, adminOnly)
	apiGroup.GET("/stats", userHandler.Stats)
	apiGroup.GET("/audit", auditHandler.Recent, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "http").Logger()
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
