package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/dietrec/backend/internal/api"
	"github.com/pageza/dietrec/backend/internal/middleware"
	"github.com/pageza/dietrec/backend/internal/monitoring"
)

// Options configures the global middleware chain
type Options struct {
	CORSOrigins []string
	Metrics     *monitoring.MetricsCollector
	Logger      *zap.Logger
}

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(opts Options, deps api.Dependencies) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if deps.Logger == nil {
		deps.Logger = opts.Logger
	}

	router := gin.New()
	router.Use(
		middleware.ErrorHandler(opts.Logger),
		middleware.RequestLogger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
	)

	if opts.Metrics != nil {
		router.Use(opts.Metrics.HTTPMiddleware())
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	api.RegisterRoutes(router, deps)
	return router
}
