package api

import (
	"KneeHeal/backend/go/pkg/logger"
	"KneeHeal/backend/go/pkg/ratelimiter"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置和返回一个 Gin 引擎实例。limiter 为 nil 时不限流。
func SetupRouter(h *Handler, limiter ratelimiter.RateLimiter, l *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogMiddleware(l))

	r.GET("/healthz", h.Health)

	apiV1 := r.Group("/api/v1")
	if limiter != nil {
		apiV1.Use(RateLimitMiddleware(limiter))
	}
	{
		predictions := apiV1.Group("/predictions")
		predictions.POST("/run", h.RunPrediction)
		predictions.GET("/history", h.History)
	}

	return r
}
