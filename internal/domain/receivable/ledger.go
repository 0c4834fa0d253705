package receivable

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OutstandingLine is one row of a customer's outstanding ledger:
// an unpaid or partially paid sale with its computed aging classification
type OutstandingLine struct {
	SaleID            uuid.UUID          `json:"sale_id"`
	SaleNumber        string             `json:"sale_number"`
	CustomerID        uuid.UUID          `json:"customer_id"`
	CustomerName      string             `json:"customer_name"`
	SaleDate          time.Time          `json:"sale_date"`
	DueDate           *time.Time         `json:"due_date,omitempty"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	OutstandingAmount decimal.Decimal    `json:"outstanding_amount"`
	DaysOverdue       int                `json:"days_overdue"`
	AgingBucket       AgingBucket        `json:"aging_bucket"`
	Priority          CollectionPriority `json:"priority"`
}

// BuildOutstandingLines computes the outstanding ledger view over the given
// sales as of the given date. Sales with no remaining balance are skipped.
// Rows are ordered by priority descending, then days overdue descending,
// which is also the order the overdue-first allocation strategy consumes.
func BuildOutstandingLines(sales []Sale, asOf time.Time) []OutstandingLine {
	lines := make([]OutstandingLine, 0, len(sales))
	for i := range sales {
		s := &sales[i]
		if !s.IsOutstanding() {
			continue
		}

		bucket, days := ClassifyAging(s.DueDate, asOf)
		lines = append(lines, OutstandingLine{
			SaleID:            s.ID,
			SaleNumber:        s.SaleNumber,
			CustomerID:        s.CustomerID,
			CustomerName:      s.CustomerName,
			SaleDate:          s.SaleDate,
			DueDate:           s.DueDate,
			TotalAmount:       s.TotalAmount,
			OutstandingAmount: s.OutstandingAmount,
			DaysOverdue:       days,
			AgingBucket:       bucket,
			Priority:          PriorityForDays(days),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].Priority.Rank() != lines[j].Priority.Rank() {
			return lines[i].Priority.Rank() > lines[j].Priority.Rank()
		}
		return lines[i].DaysOverdue > lines[j].DaysOverdue
	})

	return lines
}

// TotalOutstanding sums the outstanding amounts across the ledger lines
func TotalOutstanding(lines []OutstandingLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].OutstandingAmount)
	}
	return total
}

// CandidatesFromLines converts ledger lines to allocation candidates,
// preserving the ledger's default ordering
func CandidatesFromLines(lines []OutstandingLine) []AllocationCandidate {
	candidates := make([]AllocationCandidate, 0, len(lines))
	for i := range lines {
		candidates = append(candidates, AllocationCandidate{
			SaleID:            lines[i].SaleID,
			SaleNumber:        lines[i].SaleNumber,
			SaleDate:          lines[i].SaleDate,
			DueDate:           lines[i].DueDate,
			OutstandingAmount: lines[i].OutstandingAmount,
			DaysOverdue:       lines[i].DaysOverdue,
		})
	}
	return candidates
}
