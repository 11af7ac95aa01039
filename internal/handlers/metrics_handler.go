package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
	"github.com/niaga-platform/service-ads-insights/internal/services"
)

// MetricsHandler serves the dashboard metrics endpoint.
type MetricsHandler struct {
	metricsService *services.MetricsService
	cacheService   *services.MetricsCacheService
	logger         *zap.Logger
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(
	metricsService *services.MetricsService,
	cacheService *services.MetricsCacheService,
	logger *zap.Logger,
) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
		cacheService:   cacheService,
		logger:         logger,
	}
}

// MetricsResponse is the metrics endpoint payload.
type MetricsResponse struct {
	DateRange ads.DateRange           `json:"dateRange"`
	Platforms map[string]ads.Envelope `json:"platforms"`
	Cached    bool                    `json:"cached"`
}

// GetMetrics returns per-platform dashboard metrics for a shop.
// @Summary Get ad platform metrics
// @Tags Metrics
// @Param shop path string true "Shop ID"
// @Param preset query string false "Date preset (today, yesterday, last_7_days, this_month, last_month)"
// @Param start query string false "Custom start date (DD/MM/YYYY)"
// @Param end query string false "Custom end date (DD/MM/YYYY)"
// @Param platform query string false "Limit to one platform (google, meta)"
// @Param refresh query bool false "Bypass cache and regenerate"
// @Success 200 {object} MetricsResponse
// @Router /api/v1/shops/{shop}/metrics [get]
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	shopID := c.Param("shop")
	if shopID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing shop ID"})
		return
	}

	dateRange, ok := h.resolveDateRange(c)
	if !ok {
		return
	}

	forceRefresh := c.Query("refresh") == "true"
	if forceRefresh {
		// A fresh variation token regenerates mock data even for a replayed
		// range.
		dateRange = dateRange.WithVariation()
	}

	ctx := c.Request.Context()

	if platform := c.Query("platform"); platform != "" {
		p := ads.Platform(platform)
		if !p.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported platform"})
			return
		}
		env := h.metricsService.FetchPlatform(ctx, shopID, p, dateRange)
		c.JSON(http.StatusOK, MetricsResponse{
			DateRange: dateRange,
			Platforms: map[string]ads.Envelope{string(p): env},
		})
		return
	}

	if h.cacheService != nil && !forceRefresh {
		if cached := h.cacheService.Get(ctx, shopID, dateRange); cached != nil {
			c.JSON(http.StatusOK, MetricsResponse{
				DateRange: dateRange,
				Platforms: cached.Platforms,
				Cached:    true,
			})
			return
		}
	}

	platforms := h.metricsService.FetchAll(ctx, shopID, dateRange)
	if h.cacheService != nil && !forceRefresh {
		h.cacheService.Set(ctx, shopID, dateRange, platforms)
	}

	c.JSON(http.StatusOK, MetricsResponse{
		DateRange: dateRange,
		Platforms: platforms,
	})
}

// resolveDateRange reads preset or custom dates from the query. Custom dates
// use the dashboard's DD/MM/YYYY picker format; malformed input is a 400,
// never a silent fallback.
func (h *MetricsHandler) resolveDateRange(c *gin.Context) (ads.DateRange, bool) {
	startStr := c.Query("start")
	endStr := c.Query("end")

	if startStr != "" || endStr != "" {
		start, startOK := ads.ParseDisplayDate(startStr)
		end, endOK := ads.ParseDisplayDate(endStr)
		if !startOK || !endOK {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected DD/MM/YYYY"})
			return ads.DateRange{}, false
		}
		return ads.NewDateRange(start, end), true
	}

	return ads.ResolvePreset(c.DefaultQuery("preset", ads.PresetThisMonth)), true
}
