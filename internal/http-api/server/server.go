package server

import (
	"log/slog"
	"net/http"
	"time"

	"users-api/internal/config"
	"users-api/internal/http-api/dto"
	"users-api/internal/http-api/handler"
	"users-api/internal/http-api/middleware"
	"users-api/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

// Dependencies are the collaborators the router needs. RateLimiter may be nil
// to disable rate limiting. TrustedProxies lists the proxy IPs or CIDRs whose
// X-Forwarded-For header is honored; empty trusts none.
type Dependencies struct {
	UserService    service.UserService
	Ping           handler.Pinger
	RateLimiter    *middleware.ClientRateLimiter
	TrustedProxies []string
	Logger         *slog.Logger
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.RedirectTrailingSlash = false
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("panic_recovered",
			"request_id", c.GetString(middleware.RequestIDKey),
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse("internal server error", ""))
	}))
	if deps.RateLimiter != nil {
		r.Use(middleware.RateLimit(deps.RateLimiter))
	}

	if deps.Ping != nil {
		r.GET("/health", handler.NewHealthHandler(deps.Ping).Check)
	}
	handler.NewUserHandler(deps.UserService, logger).RegisterRoutes(r)

	r.NoRoute(handler.RouteNotFound)
	r.NoMethod(handler.RouteNotFound)

	return r
}

// WithCORS wraps h with the CORS policy for the given origins.
func WithCORS(h http.Handler, origins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	})(h)
}

// NewHTTPServer wires the router behind CORS into an http.Server.
func NewHTTPServer(cfg *config.Config, router http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           WithCORS(router, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
