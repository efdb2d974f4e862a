package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docvault-backend/internal/customers"
	"docvault-backend/internal/documents"
	"docvault-backend/internal/services/health"
	"docvault-backend/internal/shared/config"
	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers and collaborators the router wires up.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	CustomersHandler *customers.Handler
	DocumentsHandler *documents.Handler
	Authenticate     middleware.AuthenticateFunc
	RateLimiter      *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthHandler := func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Check())
	}
	r.GET("/health", healthHandler)

	api := r.Group("/api/v1")
	api.GET("/health", healthHandler)
	deps.CustomersHandler.RegisterRoutes(api)

	authed := api.Group("")
	authed.Use(
		middleware.APIKeyAuth(deps.Authenticate),
		middleware.RateLimit(rateLimitConfig(deps.RateLimiter)),
	)
	deps.DocumentsHandler.RegisterRoutes(authed)

	return r
}

func rateLimitConfig(limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet {
				return "LISTING"
			}
			return "DEFAULT"
		},
		Limiter: limiter,
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 10, Burst: 20},
			"LISTING": {Rate: 30, Burst: 60},
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
