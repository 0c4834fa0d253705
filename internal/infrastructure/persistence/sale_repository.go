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

// openSaleStatuses are the statuses in which a sale still carries an outstanding balance.
var openSaleStatuses = []receivable.SaleStatus{
	receivable.SaleStatusOutstanding,
	receivable.SaleStatusPartial,
}

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*receivable.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForTenant finds a sale by ID for a specific tenant
func (r *GormSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*receivable.Sale, error) {
	var model models.SaleModel
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

// FindByIDsForTenant finds multiple sales by ID for a tenant
func (r *GormSaleRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]receivable.Sale, error) {
	if len(ids) == 0 {
		return []receivable.Sale{}, nil
	}
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindBySaleNumber finds by sale number for a tenant
func (r *GormSaleRepository) FindBySaleNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (*receivable.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sale_number = ?", tenantID, saleNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all sales for a tenant with filtering
func (r *GormSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter receivable.SaleFilter) ([]receivable.Sale, error) {
	var saleModels []models.SaleModel
	query := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applySaleFilter(query, filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindByCustomer finds sales for a customer
func (r *GormSaleRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter receivable.SaleFilter) ([]receivable.Sale, error) {
	var saleModels []models.SaleModel
	query := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = r.applySaleFilter(query, filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindOutstanding finds all outstanding sales for a customer, oldest first
func (r *GormSaleRepository) FindOutstanding(ctx context.Context, tenantID, customerID uuid.UUID) ([]receivable.Sale, error) {
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ? AND status IN ?", tenantID, customerID, openSaleStatuses).
		Order("sale_date ASC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// FindAllOutstanding finds all outstanding sales for a tenant, optionally
// restricted to a set of customers
func (r *GormSaleRepository) FindAllOutstanding(ctx context.Context, tenantID uuid.UUID, customerIDs []uuid.UUID) ([]receivable.Sale, error) {
	var saleModels []models.SaleModel
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID, openSaleStatuses)
	if len(customerIDs) > 0 {
		query = query.Where("customer_id IN ?", customerIDs)
	}
	if err := query.Order("sale_date ASC").Find(&saleModels).Error; err != nil {
		return nil, err
	}
	return toDomainSales(saleModels), nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *receivable.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. Select("*") forces every
// column into the UPDATE so zero-valued fields (a cleared settled_at,
// an allocation balance back at zero) are written, not skipped.
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *receivable.Sale) error {
	model := models.SaleModelFromDomain(sale)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", sale.ID, sale.Version-1).
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

// DeleteForTenant soft deletes a sale for a tenant
func (r *GormSaleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SaleModel{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts sales for a tenant
func (r *GormSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter receivable.SaleFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SaleModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applySaleFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumOutstandingByCustomer calculates total outstanding for a customer
func (r *GormSaleRepository) SumOutstandingByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("COALESCE(SUM(outstanding_amount), 0) as total").
		Where("tenant_id = ? AND customer_id = ? AND status IN ?", tenantID, customerID, openSaleStatuses).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumOutstandingForTenant calculates total outstanding for a tenant
func (r *GormSaleRepository) SumOutstandingForTenant(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("COALESCE(SUM(outstanding_amount), 0) as total").
		Where("tenant_id = ? AND status IN ?", tenantID, openSaleStatuses).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// ExistsBySaleNumber checks if a sale number exists
func (r *GormSaleRepository) ExistsBySaleNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("tenant_id = ? AND sale_number = ?", tenantID, saleNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateSaleNumber generates a unique sale number
func (r *GormSaleRepository) GenerateSaleNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	// Format: SAL-YYYYMMDD-XXXXX
	date := time.Now().Format("20060102")
	prefix := fmt.Sprintf("SAL-%s-", date)

	var maxNumber string
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("sale_number").
		Where("tenant_id = ? AND sale_number LIKE ?", tenantID, prefix+"%").
		Order("sale_number DESC").
		Limit(1).
		Pluck("sale_number", &maxNumber).Error; err != nil {
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

// applySaleFilter applies filter options to the query
func (r *GormSaleRepository) applySaleFilter(query *gorm.DB, filter receivable.SaleFilter) *gorm.DB {
	query = r.applySaleFilterWithoutPagination(query, filter)

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

// applySaleFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applySaleFilterWithoutPagination(query *gorm.DB, filter receivable.SaleFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("sale_number ILIKE ? OR customer_name ILIKE ?",
			searchPattern, searchPattern)
	}

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("sale_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("sale_date <= ?", *filter.ToDate)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
	}
	if filter.Overdue != nil && *filter.Overdue {
		query = query.Where("due_date < ? AND status IN ?", time.Now(), openSaleStatuses)
	}
	if filter.MinAmount != nil {
		query = query.Where("outstanding_amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("outstanding_amount <= ?", *filter.MaxAmount)
	}

	return query
}

func toDomainSales(saleModels []models.SaleModel) []receivable.Sale {
	sales := make([]receivable.Sale, len(saleModels))
	for i, model := range saleModels {
		sales[i] = *model.ToDomain()
	}
	return sales
}

// Ensure GormSaleRepository implements SaleRepository
var _ receivable.SaleRepository = (*GormSaleRepository)(nil)
