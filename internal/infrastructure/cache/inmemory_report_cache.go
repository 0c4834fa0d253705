package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/receivables/internal/domain/receivable"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryReportCache implements receivable.ReportCache using in-memory
// storage. It is used in development and tests where Redis is not available.
type InMemoryReportCache struct {
	reports    sync.Map // map[string]*reportEntry
	defaultTTL time.Duration
	logger     *zap.Logger
	stopCh     chan struct{}
	stopped    int32

	hits   int64
	misses int64
}

// reportEntry wraps a cached report with expiration time
type reportEntry struct {
	report    *receivable.AgingReport
	expiresAt time.Time
}

func (e *reportEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryReportCacheOption is a functional option for configuring the cache.
type InMemoryReportCacheOption func(*InMemoryReportCache)

// WithInMemoryReportTTL sets the default TTL for cached reports.
func WithInMemoryReportTTL(ttl time.Duration) InMemoryReportCacheOption {
	return func(c *InMemoryReportCache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache.
func WithInMemoryLogger(logger *zap.Logger) InMemoryReportCacheOption {
	return func(c *InMemoryReportCache) {
		c.logger = logger
	}
}

// NewInMemoryReportCache creates a new in-memory report cache.
func NewInMemoryReportCache(opts ...InMemoryReportCacheOption) *InMemoryReportCache {
	cache := &InMemoryReportCache{
		defaultTTL: defaultReportTTL,
		logger:     zap.NewNop(),
		stopCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

func (c *InMemoryReportCache) cacheKey(tenantID uuid.UUID, asOf time.Time) string {
	return tenantID.String() + ":" + asOf.UTC().Format("2006-01-02")
}

// Get retrieves a cached aging report. A miss returns nil, nil.
func (c *InMemoryReportCache) Get(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*receivable.AgingReport, error) {
	cacheKey := c.cacheKey(tenantID, asOf)

	if value, ok := c.reports.Load(cacheKey); ok {
		entry := value.(*reportEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.report, nil
		}
		c.reports.Delete(cacheKey)
	}

	atomic.AddInt64(&c.misses, 1)
	return nil, nil
}

// Set stores an aging report in cache.
func (c *InMemoryReportCache) Set(ctx context.Context, tenantID uuid.UUID, report *receivable.AgingReport, ttl time.Duration) error {
	if report == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.reports.Store(c.cacheKey(tenantID, report.AsOf), &reportEntry{
		report:    report,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Invalidate removes all cached reports for the tenant.
func (c *InMemoryReportCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	prefix := tenantID.String() + ":"

	c.reports.Range(func(key, _ any) bool {
		k := key.(string)
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			c.reports.Delete(key)
		}
		return true
	})
	return nil
}

// Stats returns hit and miss counters for monitoring.
func (c *InMemoryReportCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the background cleanup goroutine.
func (c *InMemoryReportCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// cleanupExpired periodically evicts expired entries.
func (c *InMemoryReportCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.reports.Range(func(key, value any) bool {
				if value.(*reportEntry).isExpired() {
					c.reports.Delete(key)
				}
				return true
			})
		case <-c.stopCh:
			return
		}
	}
}

// Ensure InMemoryReportCache implements ReportCache
var _ receivable.ReportCache = (*InMemoryReportCache)(nil)
