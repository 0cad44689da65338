package server

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.Info("[Server] HTTP request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()))
	}
}

// analyzeMetrics records status and latency for the analyze route.
func (s *Server) analyzeMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.metrics.duration.Observe(time.Since(start).Seconds())
		s.metrics.requests.WithLabelValues(strconv.Itoa(c.Writer.Status())).Inc()
	}
}
