package routes

import (
	"github.com/address-resolver/app/controllers"
	"github.com/address-resolver/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options cấu hình middleware
type Options struct {
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// SetupAPIRoutes thiết lập tất cả API routes
func SetupAPIRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController) {
	v1 := router.Group("/v1")
	{
		addresses := v1.Group("/addresses")
		{
			addresses.POST("/parse", addressController.ParseAddress)
			addresses.POST("/tag", addressController.TagAddress)
			addresses.POST("/jobs", addressController.BatchParse)
			addresses.GET("/jobs/:jobID/status", addressController.GetJobStatus)
			addresses.GET("/jobs/:jobID/results", addressController.GetJobResults)
		}

		admin := v1.Group("/admin")
		{
			admin.GET("/stats", adminController.GetStats)
			admin.POST("/cache/invalidate", adminController.InvalidateCache)
			admin.POST("/index/publish", adminController.PublishIndex)
		}

		v1.GET("/health", adminController.HealthCheck)
	}
}

// SetupHealthRoutes thiết lập health check routes
func SetupHealthRoutes(router *gin.Engine, adminController *controllers.AdminController) {
	router.GET("/health", adminController.HealthCheck)
	router.GET("/ready", adminController.Ready)
	router.GET("/live", adminController.Live)
}

// SetupMetricsRoutes thiết lập metrics routes (cho Prometheus)
func SetupMetricsRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// SetupAllRoutes thiết lập middleware và tất cả routes
func SetupAllRoutes(router *gin.Engine, addressController *controllers.AddressController, adminController *controllers.AdminController, opts Options, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	router.Use(RequestID(), gin.Recovery(), RequestLogger(logger))

	SetupWebRoutes(router)
	SetupHealthRoutes(router, adminController)
	SetupMetricsRoutes(router)

	// rate limit chỉ áp dụng cho API
	router.Use(RateLimit(opts.RateLimitPerSecond, opts.RateLimitBurst))
	SetupAPIRoutes(router, addressController, adminController)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":  "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}
