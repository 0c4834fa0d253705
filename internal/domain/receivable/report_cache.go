package receivable

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReportCache caches computed aging reports per tenant. A cached report is a
// point-in-time snapshot; readers tolerate it being slightly stale, and any
// payment completion or reversal invalidates the tenant's entries.
type ReportCache interface {
	// Get returns the cached report for the tenant and as-of date, or nil on miss.
	Get(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (*AgingReport, error)

	// Set stores a report. A zero ttl uses the implementation default.
	Set(ctx context.Context, tenantID uuid.UUID, report *AgingReport, ttl time.Duration) error

	// Invalidate removes all cached reports for the tenant.
	Invalidate(ctx context.Context, tenantID uuid.UUID) error

	// Close releases any resources held by the cache.
	Close() error
}
