package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupWebRoutes thiết lập web routes
func SetupWebRoutes(router *gin.Engine) {
	web := router.Group("/")
	{
		web.GET("/", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"message": "Address Resolver Service",
				"docs":    "/docs",
			})
		})

		web.GET("/docs", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"api":       "Address Resolver API v1",
				"endpoints": map[string]string{
					"parse":       "POST /v1/addresses/parse",
					"tag":         "POST /v1/addresses/tag",
					"batch":       "POST /v1/addresses/jobs",
					"job_status":  "GET /v1/addresses/jobs/:jobID/status",
					"job_results": "GET /v1/addresses/jobs/:jobID/results?format=ndjson&gzip=1",
					"stats":       "GET /v1/admin/stats",
					"invalidate":  "POST /v1/admin/cache/invalidate",
					"publish":     "POST /v1/admin/index/publish",
					"health":      "GET /v1/health",
					"metrics":     "GET /metrics",
				},
			})
		})
	}
}
