package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/erp/receivables/internal/domain/receivable"
)

// GormTransactionManager executes units of work inside a single database
// transaction, handing the callback repositories bound to the tx handle.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a transaction manager over the given database
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

// InTransaction runs fn inside a gorm transaction. Any error returned by fn
// rolls back every write made through the tx-scoped repositories.
func (m *GormTransactionManager) InTransaction(ctx context.Context, fn func(sales receivable.SaleRepository, payments receivable.PaymentReceiveRepository) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormSaleRepository(tx), NewGormPaymentReceiveRepository(tx))
	})
}
