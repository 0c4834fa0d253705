// Package cache provides caching implementations for computed aging reports.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erp/receivables/internal/domain/receivable"
)

const (
	defaultReportTTL     = 5 * time.Minute
	defaultScanBatchSize = 100
)

// RedisConfig holds connection settings for the Redis cache.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisReportCache implements receivable.ReportCache using Redis.
type RedisReportCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	defaultTTL time.Duration
	logger     *zap.Logger
}

// RedisReportCacheOption is a functional option for configuring the cache.
type RedisReportCacheOption func(*RedisReportCache)

// WithReportTTL sets the default TTL for cached reports.
func WithReportTTL(ttl time.Duration) RedisReportCacheOption {
	return func(c *RedisReportCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithCacheLogger sets the logger for the cache.
func WithCacheLogger(logger *zap.Logger) RedisReportCacheOption {
	return func(c *RedisReportCache) {
		c.logger = logger
	}
}

// NewRedisReportCache creates a new Redis-based report cache.
func NewRedisReportCache(cfg RedisConfig, opts ...RedisReportCacheOption) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisReportCache{
		client:     client,
		ownsClient: true,
		defaultTTL: defaultReportTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisReportCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisReportCacheWithClient(client *redis.Client, opts ...RedisReportCacheOption) *RedisReportCache {
	cache := &RedisReportCache{
		client:     client,
		ownsClient: false,
		defaultTTL: defaultReportTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// reportCacheKey generates the cache key for a tenant's report on a given date.
func (c *RedisReportCache) reportCacheKey(tenantID uuid.UUID, asOf time.Time) string {
	return fmt.Sprintf("aging_report:%s:%s", tenantID.String(), asOf.UTC().Format("2006-01-02"))
}

// tenantKeyPattern matches every cached report for the tenant.
func (c *RedisReportCache) tenantKeyPattern(tenantID uuid.UUID) string {
	return fmt.Sprintf("aging_report:%s:*", tenantID.String())
}

// Get retrieves a cached aging report. A miss returns nil, nil.
func (c *RedisReportCache) Get(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*receivable.AgingReport, error) {
	cacheKey := c.reportCacheKey(tenantID, asOf)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for aging report", zap.String("tenant_id", tenantID.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get aging report from cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get report from cache: %w", err)
	}

	var report receivable.AgingReport
	if err := json.Unmarshal(data, &report); err != nil {
		c.logger.Error("Failed to unmarshal aging report",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	c.logger.Debug("Cache hit for aging report", zap.String("tenant_id", tenantID.String()))
	return &report, nil
}

// Set stores an aging report in cache.
func (c *RedisReportCache) Set(ctx context.Context, tenantID uuid.UUID, report *receivable.AgingReport, ttl time.Duration) error {
	if report == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	cacheKey := c.reportCacheKey(tenantID, report.AsOf)

	data, err := json.Marshal(report)
	if err != nil {
		c.logger.Error("Failed to marshal aging report",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set aging report in cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to set report in cache: %w", err)
	}

	c.logger.Debug("Cached aging report",
		zap.String("tenant_id", tenantID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// Invalidate removes all cached reports for the tenant. SCAN is used instead
// of KEYS to avoid blocking Redis.
func (c *RedisReportCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, c.tenantKeyPattern(tenantID), defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan report cache keys", zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete report cache keys", zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("Invalidated aging report cache",
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases the Redis client if this cache owns it.
func (c *RedisReportCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisReportCache implements ReportCache
var _ receivable.ReportCache = (*RedisReportCache)(nil)
