package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"treatment-backend/internal/feedback"
	"treatment-backend/internal/recommendations"
	"treatment-backend/internal/services/health"
	"treatment-backend/internal/shared/config"
	"treatment-backend/internal/shared/metrics"
	"treatment-backend/internal/shared/server/middleware"
	"treatment-backend/internal/shared/server/respond"
	"treatment-backend/internal/steeltypes"
	"treatment-backend/internal/workinstructions"
)

const (
	rateGroupDefault = "DEFAULT"
	rateGroupSearch  = "SEARCH"
	searchRoute      = "/api/v1/recommendations/search"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config                 config.Config
	Health                 *health.Service
	RecommendationHandler  *recommendations.Handler
	FeedbackHandler        *feedback.Handler
	WorkInstructionHandler *workinstructions.Handler
	SteelTypeHandler       *steeltypes.Handler
	RateLimiter            *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	cfg := deps.Config
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateGroupFor,
			Limiter:      deps.RateLimiter,
			Rules: map[string]middleware.RateLimitRule{
				rateGroupDefault: {Rate: cfg.DefaultRateLimit, Burst: cfg.DefaultRateBurst},
				rateGroupSearch:  {Rate: cfg.SearchRateLimit, Burst: cfg.SearchRateBurst},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	if deps.RecommendationHandler != nil {
		deps.RecommendationHandler.RegisterSearchRoutes(api)
		deps.RecommendationHandler.RegisterRoutes(api)
	}
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.RegisterRoutes(api)
	}
	if deps.WorkInstructionHandler != nil {
		deps.WorkInstructionHandler.RegisterRoutes(api)
	}
	if deps.SteelTypeHandler != nil {
		deps.SteelTypeHandler.RegisterRoutes(api)
	}

	return r
}

func rateGroupFor(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == searchRoute {
		return rateGroupSearch
	}
	return rateGroupDefault
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
