package api

import (
	"KneeHeal/backend/go/internal/models"
	"KneeHeal/backend/go/pkg/logger"
	"KneeHeal/backend/go/pkg/ratelimiter"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware 在令牌耗尽时返回 429。
func RateLimitMiddleware(limiter ratelimiter.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}
		c.Next()
	}
}

// RequestLogMiddleware 为每个请求输出一条结构化访问日志。
func RequestLogMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.WithRequest(models.RequestInfo{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			RemoteAddr: c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			Status:     c.Writer.Status(),
			LatencyMs:  time.Since(start).Milliseconds(),
		}).Info("request handled")
	}
}
