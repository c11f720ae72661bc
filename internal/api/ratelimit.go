package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dietrec/backend/internal/middleware"
)

// RegisterRateLimitRoutes registers endpoints for checking rate limit status
func RegisterRateLimitRoutes(router *gin.RouterGroup, planLimiter *middleware.RateLimiter) {
	rateLimits := router.Group("/rate-limits")
	{
		rateLimits.GET("/plan-generation", func(c *gin.Context) {
			sessionID := c.GetString(middleware.SessionIDKey)
			if sessionID == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
				return
			}

			remaining, resetTime, err := planLimiter.GetRemainingRequests(c.Request.Context(), sessionID)
			if err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
				return
			}

			cfg := planLimiter.Config()
			c.JSON(http.StatusOK, gin.H{
				"limit":      cfg.Limit,
				"remaining":  remaining,
				"reset_time": resetTime.Unix(),
				"window":     cfg.Window.String(),
			})
		})
	}
}
