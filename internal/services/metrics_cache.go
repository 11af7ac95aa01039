package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

// MetricsCacheService caches resolved metric envelopes in Redis. The
// aggregation service below stays cache-free; this layer sits at the handler
// boundary and is skipped entirely for refresh and variation requests.
type MetricsCacheService struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// CachedMetrics is the cached per-platform envelope set.
type CachedMetrics struct {
	Platforms map[string]ads.Envelope `json:"platforms"`
	CachedAt  time.Time               `json:"cached_at"`
}

// NewMetricsCacheService creates a new metrics cache service.
func NewMetricsCacheService(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *MetricsCacheService {
	if ttl == 0 {
		ttl = 5 * time.Minute // Default TTL
	}
	return &MetricsCacheService{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// cacheKey generates a cache key for one shop and date range.
func (s *MetricsCacheService) cacheKey(shopID string, dateRange ads.DateRange) string {
	return fmt.Sprintf("ads:metrics:%s:%s", shopID, dateRange.Key())
}

// Get retrieves cached metrics. Misses and cache failures both come back as
// nil; the caller falls through to a live fetch either way.
func (s *MetricsCacheService) Get(ctx context.Context, shopID string, dateRange ads.DateRange) *CachedMetrics {
	if s.redis == nil {
		return nil // No cache available
	}

	key := s.cacheKey(shopID, dateRange)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("failed to get metrics from cache", zap.Error(err), zap.String("key", key))
		}
		return nil
	}

	var cached CachedMetrics
	if err := json.Unmarshal(data, &cached); err != nil {
		s.logger.Warn("failed to unmarshal cached metrics", zap.Error(err))
		return nil
	}

	s.logger.Debug("cache hit for metrics", zap.String("shop_id", shopID))
	return &cached
}

// Set stores resolved envelopes. Envelopes carrying an error are not cached,
// so a transient provider outage clears on the next request instead of
// lingering for the TTL.
func (s *MetricsCacheService) Set(ctx context.Context, shopID string, dateRange ads.DateRange, platforms map[string]ads.Envelope) {
	if s.redis == nil {
		return
	}
	for _, env := range platforms {
		if env.Error != "" {
			return
		}
	}

	cached := CachedMetrics{Platforms: platforms, CachedAt: time.Now()}
	data, err := json.Marshal(cached)
	if err != nil {
		s.logger.Warn("failed to marshal metrics for cache", zap.Error(err))
		return
	}

	key := s.cacheKey(shopID, dateRange)
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to set metrics in cache", zap.Error(err), zap.String("key", key))
		return
	}
	s.logger.Debug("cached metrics", zap.String("shop_id", shopID), zap.Duration("ttl", s.ttl))
}

// Invalidate removes every cached range for a shop, used when a connection
// changes.
func (s *MetricsCacheService) Invalidate(ctx context.Context, shopID string) {
	if s.redis == nil {
		return
	}

	pattern := fmt.Sprintf("ads:metrics:%s:*", shopID)
	keys, err := s.redis.Keys(ctx, pattern).Result()
	if err != nil {
		s.logger.Warn("failed to find cache keys to invalidate", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := s.redis.Del(ctx, keys...).Err(); err != nil {
			s.logger.Warn("failed to invalidate metrics cache", zap.Error(err))
			return
		}
		s.logger.Debug("invalidated metrics cache", zap.String("shop_id", shopID), zap.Int("keys_removed", len(keys)))
	}
}
