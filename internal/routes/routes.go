package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/niaga-platform/service-ads-insights/internal/handlers"
)

// RouteConfig holds configuration for routes
type RouteConfig struct {
	MetricsHandler    *handlers.MetricsHandler
	ConnectionHandler *handlers.ConnectionHandler
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouteConfig) {
	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Per-shop resources. Session handling lives in the host storefront app;
	// the shop identifier arrives resolved in the path.
	shops := v1.Group("/shops/:shop")
	{
		shops.GET("/metrics", cfg.MetricsHandler.GetMetrics)

		connections := shops.Group("/connections")
		{
			connections.GET("", cfg.ConnectionHandler.ListConnections)
			connections.POST("/google", cfg.ConnectionHandler.SaveGoogleConnection)
			connections.POST("/meta", cfg.ConnectionHandler.SaveMetaConnection)
			connections.DELETE("/:platform", cfg.ConnectionHandler.Disconnect)
			connections.GET("/:platform/verify", cfg.ConnectionHandler.VerifyConnection)
		}
	}

	// OAuth connect flow. The callback is hit by the provider redirect, so it
	// lives outside the per-shop group and recovers the shop from state.
	connect := v1.Group("/connect/:platform")
	{
		connect.GET("/start", cfg.ConnectionHandler.StartOAuth)
		connect.GET("/callback", cfg.ConnectionHandler.OAuthCallback)
	}
}
