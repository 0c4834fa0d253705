package receivable

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/receivables/internal/domain/shared"
)

// SaleFilter defines filtering options for sale queries
type SaleFilter struct {
	shared.Filter
	CustomerID *uuid.UUID       // Filter by customer
	Status     *SaleStatus      // Filter by status
	FromDate   *time.Time       // Filter by sale date range start
	ToDate     *time.Time       // Filter by sale date range end
	DueFrom    *time.Time       // Filter by due date range start
	DueTo      *time.Time       // Filter by due date range end
	Overdue    *bool            // Filter only overdue sales
	MinAmount  *decimal.Decimal // Filter by minimum outstanding amount
	MaxAmount  *decimal.Decimal // Filter by maximum outstanding amount
}

// SaleRepository defines the interface for sale persistence.
// Single-record finders return (nil, nil) when no record matches.
type SaleRepository interface {
	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByIDForTenant finds a sale by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)

	// FindByIDsForTenant finds multiple sales by ID for a tenant
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Sale, error)

	// FindBySaleNumber finds by sale number for a tenant
	FindBySaleNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (*Sale, error)

	// FindAllForTenant finds all sales for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter SaleFilter) ([]Sale, error)

	// FindByCustomer finds sales for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter SaleFilter) ([]Sale, error)

	// FindOutstanding finds all outstanding (unpaid or partially paid) sales for a customer
	FindOutstanding(ctx context.Context, tenantID, customerID uuid.UUID) ([]Sale, error)

	// FindAllOutstanding finds all outstanding sales for a tenant, optionally
	// restricted to a set of customers
	FindAllOutstanding(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID) ([]Sale, error)

	// Save creates or updates a sale
	Save(ctx context.Context, sale *Sale) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sale *Sale) error

	// DeleteForTenant soft deletes a sale for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts sales for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter SaleFilter) (int64, error)

	// SumOutstandingByCustomer calculates total outstanding amount for a customer
	SumOutstandingByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error)

	// SumOutstandingForTenant calculates total outstanding amount for a tenant
	SumOutstandingForTenant(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)

	// ExistsBySaleNumber checks if a sale number exists for a tenant
	ExistsBySaleNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (bool, error)

	// GenerateSaleNumber generates a unique sale number for a tenant
	GenerateSaleNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// PaymentReceiveFilter defines filtering options for payment queries
type PaymentReceiveFilter struct {
	shared.Filter
	CustomerID    *uuid.UUID      // Filter by customer
	Status        *WorkflowStatus // Filter by workflow status
	PaymentMethod *PaymentMethod  // Filter by payment method
	FromDate      *time.Time      // Filter by payment date range start
	ToDate        *time.Time      // Filter by payment date range end
}

// PaymentReceiveRepository defines the interface for payment receive persistence.
// Single-record finders return (nil, nil) when no record matches.
type PaymentReceiveRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentReceive, error)

	// FindByIDForTenant finds a payment by ID for a specific tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PaymentReceive, error)

	// FindByPaymentNumber finds by payment number for a tenant
	FindByPaymentNumber(ctx context.Context, tenantID uuid.UUID, paymentNumber string) (*PaymentReceive, error)

	// FindAllForTenant finds all payments for a tenant with filtering
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentReceiveFilter) ([]PaymentReceive, error)

	// FindByCustomer finds payments for a customer
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter PaymentReceiveFilter) ([]PaymentReceive, error)

	// FindByStatus finds payments by workflow status for a tenant
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status WorkflowStatus, filter PaymentReceiveFilter) ([]PaymentReceive, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *PaymentReceive) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *PaymentReceive) error

	// DeleteForTenant hard deletes a draft payment and its allocations for a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// CountForTenant counts payments for a tenant with optional filters
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter PaymentReceiveFilter) (int64, error)

	// CountByStatus counts payments by workflow status for a tenant
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status WorkflowStatus) (int64, error)

	// SumCompletedByCustomer calculates total completed payment amount for a customer
	SumCompletedByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error)

	// ExistsByPaymentNumber checks if a payment number exists for a tenant
	ExistsByPaymentNumber(ctx context.Context, tenantID uuid.UUID, paymentNumber string) (bool, error)

	// GeneratePaymentNumber generates a unique payment number for a tenant
	GeneratePaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}

// TransactionManager runs a unit of work against transaction-scoped
// repositories. Either every write inside fn commits or none do.
type TransactionManager interface {
	InTransaction(ctx context.Context, fn func(sales SaleRepository, payments PaymentReceiveRepository) error) error
}
