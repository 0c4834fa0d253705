// Package models contains GORM persistence models and their domain mappings.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/receivables/internal/domain/receivable"
	"github.com/erp/receivables/internal/domain/shared"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	TenantAggregateModel
	SaleNumber        string                `gorm:"type:varchar(50);not null;uniqueIndex:idx_sale_tenant_number,priority:2"`
	CustomerID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName      string                `gorm:"type:varchar(200);not null"`
	SaleDate          time.Time             `gorm:"not null;index"`
	DueDate           *time.Time            `gorm:"index"`
	TotalAmount       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	AllocatedAmount   decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	OutstandingAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null;index"`
	Status            receivable.SaleStatus `gorm:"type:varchar(20);not null;default:'OUTSTANDING';index"`
	Remark            string                `gorm:"type:text"`
	SettledAt         *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale entity.
func (m *SaleModel) ToDomain() *receivable.Sale {
	return &receivable.Sale{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		SaleNumber:        m.SaleNumber,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		SaleDate:          m.SaleDate,
		DueDate:           m.DueDate,
		TotalAmount:       m.TotalAmount,
		AllocatedAmount:   m.AllocatedAmount,
		OutstandingAmount: m.OutstandingAmount,
		Status:            m.Status,
		Remark:            m.Remark,
		SettledAt:         m.SettledAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Sale entity.
func (m *SaleModel) FromDomain(s *receivable.Sale) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.SaleNumber = s.SaleNumber
	m.CustomerID = s.CustomerID
	m.CustomerName = s.CustomerName
	m.SaleDate = s.SaleDate
	m.DueDate = s.DueDate
	m.TotalAmount = s.TotalAmount
	m.AllocatedAmount = s.AllocatedAmount
	m.OutstandingAmount = s.OutstandingAmount
	m.Status = s.Status
	m.Remark = s.Remark
	m.SettledAt = s.SettledAt
	m.CancelledAt = s.CancelledAt
	m.CancelReason = s.CancelReason
}

// SaleModelFromDomain creates a new persistence model from a domain Sale.
func SaleModelFromDomain(s *receivable.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// PaymentReceiveModel is the persistence model for the PaymentReceive aggregate root.
// Allocations and verification are stored as JSONB since they are value objects
// owned entirely by the payment and always loaded with it.
type PaymentReceiveModel struct {
	TenantAggregateModel
	PaymentNumber     string                        `gorm:"type:varchar(50);not null;uniqueIndex:idx_payment_tenant_number,priority:2"`
	CustomerID        uuid.UUID                     `gorm:"type:uuid;not null;index"`
	CustomerName      string                        `gorm:"type:varchar(200);not null"`
	TotalAmount       decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	AllocatedAmount   decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	UnallocatedAmount decimal.Decimal               `gorm:"type:decimal(18,4);not null"`
	PaymentMethod     receivable.PaymentMethod      `gorm:"type:varchar(30);not null"`
	PaymentReference  string                        `gorm:"type:varchar(100)"`
	PaymentDate       time.Time                     `gorm:"not null;index"`
	WorkflowStatus    receivable.WorkflowStatus     `gorm:"type:varchar(30);not null;default:'DRAFT';index"`
	RequiresApproval  bool                          `gorm:"not null;default:false"`
	Allocations       receivable.PaymentAllocations `gorm:"type:jsonb;default:'[]'"`
	Verification      *receivable.Verification      `gorm:"type:jsonb"`
	Remark            string                        `gorm:"type:text"`
	SubmittedAt       *time.Time
	SubmittedBy       *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt        *time.Time
	ApprovedBy        *uuid.UUID `gorm:"type:uuid"`
	RejectedAt        *time.Time
	RejectedBy        *uuid.UUID `gorm:"type:uuid"`
	RejectReason      string     `gorm:"type:varchar(500)"`
	CompletedAt       *time.Time
	CompletedBy       *uuid.UUID `gorm:"type:uuid"`
	CancelledAt       *time.Time
	CancelledBy       *uuid.UUID `gorm:"type:uuid"`
	CancelReason      string     `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PaymentReceiveModel) TableName() string {
	return "payment_receives"
}

// ToDomain converts the persistence model to a domain PaymentReceive entity.
func (m *PaymentReceiveModel) ToDomain() *receivable.PaymentReceive {
	return &receivable.PaymentReceive{
		TenantAggregateRoot: shared.TenantAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			TenantID:  m.TenantID,
			CreatedBy: m.CreatedBy,
		},
		PaymentNumber:     m.PaymentNumber,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		TotalAmount:       m.TotalAmount,
		AllocatedAmount:   m.AllocatedAmount,
		UnallocatedAmount: m.UnallocatedAmount,
		PaymentMethod:     m.PaymentMethod,
		PaymentReference:  m.PaymentReference,
		PaymentDate:       m.PaymentDate,
		WorkflowStatus:    m.WorkflowStatus,
		RequiresApproval:  m.RequiresApproval,
		Allocations:       m.Allocations,
		Verification:      m.Verification,
		Remark:            m.Remark,
		SubmittedAt:       m.SubmittedAt,
		SubmittedBy:       m.SubmittedBy,
		ApprovedAt:        m.ApprovedAt,
		ApprovedBy:        m.ApprovedBy,
		RejectedAt:        m.RejectedAt,
		RejectedBy:        m.RejectedBy,
		RejectReason:      m.RejectReason,
		CompletedAt:       m.CompletedAt,
		CompletedBy:       m.CompletedBy,
		CancelledAt:       m.CancelledAt,
		CancelledBy:       m.CancelledBy,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain PaymentReceive entity.
func (m *PaymentReceiveModel) FromDomain(p *receivable.PaymentReceive) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.PaymentNumber = p.PaymentNumber
	m.CustomerID = p.CustomerID
	m.CustomerName = p.CustomerName
	m.TotalAmount = p.TotalAmount
	m.AllocatedAmount = p.AllocatedAmount
	m.UnallocatedAmount = p.UnallocatedAmount
	m.PaymentMethod = p.PaymentMethod
	m.PaymentReference = p.PaymentReference
	m.PaymentDate = p.PaymentDate
	m.WorkflowStatus = p.WorkflowStatus
	m.RequiresApproval = p.RequiresApproval
	m.Allocations = p.Allocations
	m.Verification = p.Verification
	m.Remark = p.Remark
	m.SubmittedAt = p.SubmittedAt
	m.SubmittedBy = p.SubmittedBy
	m.ApprovedAt = p.ApprovedAt
	m.ApprovedBy = p.ApprovedBy
	m.RejectedAt = p.RejectedAt
	m.RejectedBy = p.RejectedBy
	m.RejectReason = p.RejectReason
	m.CompletedAt = p.CompletedAt
	m.CompletedBy = p.CompletedBy
	m.CancelledAt = p.CancelledAt
	m.CancelledBy = p.CancelledBy
	m.CancelReason = p.CancelReason
}

// PaymentReceiveModelFromDomain creates a new persistence model from a domain PaymentReceive.
func PaymentReceiveModelFromDomain(p *receivable.PaymentReceive) *PaymentReceiveModel {
	m := &PaymentReceiveModel{}
	m.FromDomain(p)
	return m
}
