package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"treatment-backend/internal/shared/telemetry"
)

// Context keys handlers may set so the request log can correlate domain ids.
const (
	ITCodeKey           = "itCode"
	RecommendationIDKey = "recommendationId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		itCode, _ := c.Get(ITCodeKey)
		recommendationID, _ := c.Get(RecommendationIDKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":        reqID,
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            status,
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"it_code":           itCode,
			"recommendation_id": recommendationID,
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
