package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/", s.index)
	r.POST("/analyze", s.analyzeMetrics(), s.analyze)
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return r
}
