package receivable

import (
	"context"

	"go.uber.org/zap"

	"github.com/erp/receivables/internal/domain/receivable"
	"github.com/erp/receivables/internal/domain/shared"
)

// ReportCacheInvalidationHandler subscribes to the sale events that move
// balances or aging buckets and drops the tenant's cached aging reports,
// so the next report read recomputes from current data.
type ReportCacheInvalidationHandler struct {
	cache  receivable.ReportCache
	logger *zap.Logger
}

// NewReportCacheInvalidationHandler creates a new handler over the report cache
func NewReportCacheInvalidationHandler(cache receivable.ReportCache, logger *zap.Logger) *ReportCacheInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportCacheInvalidationHandler{
		cache:  cache,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ReportCacheInvalidationHandler) EventTypes() []string {
	return []string{
		receivable.EventTypeSaleCreated,
		receivable.EventTypeSaleAllocationApplied,
		receivable.EventTypeSaleSettled,
		receivable.EventTypeSaleAllocationReversed,
		receivable.EventTypeSaleCancelled,
		receivable.EventTypeSaleDueDateChanged,
	}
}

// Handle invalidates the cached reports for the event's tenant. A cache
// failure is logged and swallowed; the cache self-heals via TTL.
func (h *ReportCacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if err := h.cache.Invalidate(ctx, event.TenantID()); err != nil {
		h.logger.Warn("failed to invalidate aging report cache",
			zap.String("tenant_id", event.TenantID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
	return nil
}
