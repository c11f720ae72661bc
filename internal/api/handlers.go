package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/dietrec/backend/internal/middleware"
	"github.com/pageza/dietrec/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Diet recommendation API is running",
		"version": "v1.0.0",
	})
}

// ReadinessCheck reports whether every dependency answers
func ReadinessCheck(checks map[string]func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		c.JSON(status, gin.H{"checks": results})
	}
}

// Dependencies are the services the API routes need
type Dependencies struct {
	Recommendations service.IRecommendationService
	Sessions        service.ISessionStore
	History         service.IHistoryService
	Tokens          middleware.TokenValidator
	PlanLimiter     *middleware.RateLimiter
	SessionOptions  middleware.SessionOptions
	ReadyChecks     map[string]func(ctx context.Context) error
	Logger          *zap.Logger
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	// Health check endpoints (no session required)
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)
	router.GET("/ready", ReadinessCheck(deps.ReadyChecks))

	v1 := router.Group("/api/v1")
	NewCalculatorHandler().RegisterRoutes(v1)

	withSession := v1.Group("")
	withSession.Use(middleware.Session(deps.Tokens, deps.Sessions, deps.SessionOptions, deps.Logger))

	NewPlanHandler(deps.Recommendations, deps.Sessions, deps.History, deps.PlanLimiter, deps.Logger).RegisterRoutes(withSession)
	if deps.PlanLimiter != nil {
		RegisterRateLimitRoutes(withSession, deps.PlanLimiter)
	}
}
