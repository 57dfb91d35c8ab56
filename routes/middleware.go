package routes

import (
	"net/http"
	"time"

	"github.com/address-resolver/app/controllers"
	"github.com/address-resolver/app/responses"
	"github.com/address-resolver/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestID gắn X-Request-ID cho mỗi request, sinh mới nếu client không gửi
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(controllers.RequestIDKey, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}

// RequestLogger log request bằng zap và ghi metrics HTTP
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.ObserveHTTP(route, status, elapsed)

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(controllers.RequestIDKey)))
	}
}

// RateLimit token bucket dùng chung cho toàn service; rps <= 0 thì tắt
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, responses.ErrorResponse{
				Error:     "RATE_LIMITED",
				Message:   "Quá nhiều request, thử lại sau",
				Timestamp: time.Now().Format(time.RFC3339),
				RequestID: c.GetString(controllers.RequestIDKey),
			})
			return
		}
		c.Next()
	}
}
