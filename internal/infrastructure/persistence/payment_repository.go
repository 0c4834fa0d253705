package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/erp/receivables/internal/domain/receivable"
	"github.com/erp/receivables/internal/domain/shared"
	"github.com/erp/receivables/internal/infrastructure/persistence/models"
)

// GormPaymentReceiveRepository implements PaymentReceiveRepository using GORM
type GormPaymentReceiveRepository struct {
	db *gorm.DB
}

// NewGormPaymentReceiveRepository creates a new GormPaymentReceiveRepository
func NewGormPaymentReceiveRepository(db *gorm.DB) *GormPaymentReceiveRepository {
	return &GormPaymentReceiveRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentReceiveRepository) FindByID(ctx context.Context, id uuid.UUID) (*receivable.PaymentReceive, error) {
	var model models.PaymentReceiveModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a payment by ID for a specific tenant
func (r *GormPaymentReceiveRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receivable.PaymentReceive, error) {
	var model models.PaymentReceiveModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPaymentNumber finds by payment number for a tenant
func (r *GormPaymentReceiveRepository) FindByPaymentNumber(ctx context.Context, tenantID uuid.UUID, paymentNumber string) (*receivable.PaymentReceive, error) {
	var model models.PaymentReceiveModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND payment_number = ?", tenantID, paymentNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all payments for a tenant with filtering
func (r *GormPaymentReceiveRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter receivable.PaymentReceiveFilter) ([]receivable.PaymentReceive, error) {
	var paymentModels []models.PaymentReceiveModel
	query := r.db.WithContext(ctx).Model(&models.PaymentReceiveModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyPaymentFilter(query, filter)

	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindByCustomer finds payments for a customer
func (r *GormPaymentReceiveRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter receivable.PaymentReceiveFilter) ([]receivable.PaymentReceive, error) {
	var paymentModels []models.PaymentReceiveModel
	query := r.db.WithContext(ctx).Model(&models.PaymentReceiveModel{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = r.applyPaymentFilter(query, filter)

	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindByStatus finds payments by workflow status for a tenant
func (r *GormPaymentReceiveRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status receivable.WorkflowStatus, filter receivable.PaymentReceiveFilter) ([]receivable.PaymentReceive, error) {
	var paymentModels []models.PaymentReceiveModel
	query := r.db.WithContext(ctx).Model(&models.PaymentReceiveModel{}).
		Where("tenant_id = ? AND workflow_status = ?", tenantID, status)
	query = r.applyPaymentFilter(query, filter)

	if err := query.Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// Save creates or updates a payment
func (r *GormPaymentReceiveRepository) Save(ctx context.Context, payment *receivable.PaymentReceive) error {
	model := models.PaymentReceiveModelFromDomain(payment)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. Select("*") forces every
// column into the UPDATE so cleared pointer and zero-valued fields are
// written, not skipped.
func (r *GormPaymentReceiveRepository) SaveWithLock(ctx context.Context, payment *receivable.PaymentReceive) error {
	model := models.PaymentReceiveModelFromDomain(payment)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", payment.ID, payment.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForTenant deletes a payment for a tenant
func (r *GormPaymentReceiveRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PaymentReceiveModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts payments for a tenant
func (r *GormPaymentReceiveRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter receivable.PaymentReceiveFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PaymentReceiveModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyPaymentFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts payments by workflow status
func (r *GormPaymentReceiveRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status receivable.WorkflowStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentReceiveModel{}).
		Where("tenant_id = ? AND workflow_status = ?", tenantID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumCompletedByCustomer calculates total completed payment amount for a customer
func (r *GormPaymentReceiveRepository) SumCompletedByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentReceiveModel{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("tenant_id = ? AND customer_id = ? AND workflow_status = ?", tenantID, customerID,
			receivable.WorkflowStatusCompleted).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// ExistsByPaymentNumber checks if a payment number exists
func (r *GormPaymentReceiveRepository) ExistsByPaymentNumber(ctx context.Context, tenantID uuid.UUID, paymentNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentReceiveModel{}).
		Where("tenant_id = ? AND payment_number = ?", tenantID, paymentNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GeneratePaymentNumber generates a unique payment number
func (r *GormPaymentReceiveRepository) GeneratePaymentNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: PAY-YYYYMMDD-XXXXX
	date := time.Now().Format("20060102")
	prefix := fmt.Sprintf("PAY-%s-", date)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.PaymentReceiveModel{}).
		Select("payment_number").
		Where("tenant_id = ? AND payment_number LIKE ?", tenantID, prefix+"%").
		Order("payment_number DESC").
		Limit(1).
		Pluck("payment_number", &maxNumber).Error; err != nil {
		return "", err
	}

	var nextNum int
	if maxNumber != "" {
		parts := strings.Split(maxNumber, "-")
		if len(parts) == 3 {
			fmt.Sscanf(parts[2], "%d", &nextNum)
		}
	}
	nextNum++

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// applyPaymentFilter applies filter options to the query
func (r *GormPaymentReceiveRepository) applyPaymentFilter(query *gorm.DB, filter receivable.PaymentReceiveFilter) *gorm.DB {
	query = r.applyPaymentFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyPaymentFilterWithoutPagination applies filter options without pagination
func (r *GormPaymentReceiveRepository) applyPaymentFilterWithoutPagination(query *gorm.DB, filter receivable.PaymentReceiveFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("payment_number ILIKE ? OR customer_name ILIKE ? OR payment_reference ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("workflow_status = ?", *filter.Status)
	}
	if filter.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *filter.PaymentMethod)
	}
	if filter.FromDate != nil {
		query = query.Where("payment_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("payment_date <= ?", *filter.ToDate)
	}

	return query
}

func toDomainPayments(paymentModels []models.PaymentReceiveModel) []receivable.PaymentReceive {
	payments := make([]receivable.PaymentReceive, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments
}

// Ensure GormPaymentReceiveRepository implements PaymentReceiveRepository
var _ receivable.PaymentReceiveRepository = (*GormPaymentReceiveRepository)(nil)
