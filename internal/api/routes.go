package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes. The rate limiter applies to the scan
// group only so probes against /health and /ready never get throttled; pass
// nil to leave the scan endpoints unlimited.
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler, rateLimit gin.HandlerFunc) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)
	router.GET("/metrics", gin.WrapH(metrics))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Scan endpoints
		scan := v1.Group("/scan")
		if rateLimit != nil {
			scan.Use(rateLimit)
		}
		{
			scan.POST("", handler.ScanURL)           // POST /api/v1/scan
			scan.POST("/strict", handler.ScanStrict) // POST /api/v1/scan/strict
			scan.POST("/local", handler.ScanLocal)   // POST /api/v1/scan/local
		}

		// Metrics endpoints
		metricsGroup := v1.Group("/metrics")
		metricsGroup.GET("/backend-health", handler.BackendHealth) // GET /api/v1/metrics/backend-health
	}
}
