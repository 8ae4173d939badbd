package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Logger returns a gin middleware for logging requests
func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		entry := log.With().
			Int("status", statusCode).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()

		switch {
		case statusCode >= 500:
			entry.Error().Msg("Server error")
		case statusCode >= 400:
			entry.Warn().Msg("Client error")
		default:
			entry.Info().Msg("Request processed")
		}
	}
}
