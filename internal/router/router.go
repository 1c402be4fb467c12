package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartchef/backend/internal/api"
	"github.com/smartchef/backend/internal/metrics"
	"github.com/smartchef/backend/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by SetupRouter. Scan may be nil.
type Handlers struct {
	Image  *api.ImageHandler
	LLM    *api.LLMHandler
	Recipe *api.RecipeHandler
	Scan   *api.ScanHandler
}

// Options carries the cross-cutting pieces of the router.
type Options struct {
	Logger         *zap.Logger
	Metrics        *metrics.Collector
	AllowedOrigins []string
	// Limiter guards the upload and generation endpoints; nil disables it.
	Limiter middleware.Limiter
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(opts.Logger),
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		opts.Metrics.HTTPMiddleware(),
		middleware.ErrorHandler(),
	)

	limited := []gin.HandlerFunc{}
	if opts.Limiter != nil {
		limited = append(limited, middleware.RateLimitMiddleware(opts.Limiter, opts.Logger))
	}
	with := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, limited...), handler)
	}

	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	// Root routes used by the web frontend
	router.GET("/health", api.HealthCheck)
	router.POST("/upload", with(h.Image.Upload)...)
	router.POST("/ai-recipe", with(h.LLM.GenerateRecipe)...)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", api.HealthCheck)
		v1.POST("/upload", with(h.Image.Upload)...)
		v1.POST("/ai-recipe", with(h.LLM.GenerateRecipe)...)
		v1.GET("/ai-recipe/:id", h.LLM.GetRecipe)
		v1.POST("/recommend", h.Recipe.Recommend)

		if h.Scan != nil {
			scans := v1.Group("/scans")
			{
				scans.GET("", h.Scan.ListScans)
				scans.GET("/:id", h.Scan.GetScan)
			}
			v1.GET("/labels", h.Scan.TopLabels)
		}
	}

	return router
}
