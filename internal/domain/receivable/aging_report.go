package receivable

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RiskLevel classifies a customer's collection risk from their aging distribution
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// String returns the string representation
func (r RiskLevel) String() string {
	return string(r)
}

// BucketTotals holds one amount per aging bucket plus the grand total
type BucketTotals struct {
	Current     decimal.Decimal `json:"current"`
	Days31To60  decimal.Decimal `json:"days_31_60"`
	Days61To90  decimal.Decimal `json:"days_61_90"`
	Days91To120 decimal.Decimal `json:"days_91_120"`
	Days120Plus decimal.Decimal `json:"days_120_plus"`
	Total       decimal.Decimal `json:"total"`
}

// NewBucketTotals returns zeroed bucket totals
func NewBucketTotals() BucketTotals {
	return BucketTotals{
		Current:     decimal.Zero,
		Days31To60:  decimal.Zero,
		Days61To90:  decimal.Zero,
		Days91To120: decimal.Zero,
		Days120Plus: decimal.Zero,
		Total:       decimal.Zero,
	}
}

// AddToBucket adds an amount to the given bucket and the grand total
func (t *BucketTotals) AddToBucket(bucket AgingBucket, amount decimal.Decimal) {
	switch bucket {
	case AgingBucket31To60:
		t.Days31To60 = t.Days31To60.Add(amount)
	case AgingBucket61To90:
		t.Days61To90 = t.Days61To90.Add(amount)
	case AgingBucket91To120:
		t.Days91To120 = t.Days91To120.Add(amount)
	case AgingBucket120Plus:
		t.Days120Plus = t.Days120Plus.Add(amount)
	default:
		t.Current = t.Current.Add(amount)
	}
	t.Total = t.Total.Add(amount)
}

// Add accumulates another set of bucket totals element-wise
func (t *BucketTotals) Add(other BucketTotals) {
	t.Current = t.Current.Add(other.Current)
	t.Days31To60 = t.Days31To60.Add(other.Days31To60)
	t.Days61To90 = t.Days61To90.Add(other.Days61To90)
	t.Days91To120 = t.Days91To120.Add(other.Days91To120)
	t.Days120Plus = t.Days120Plus.Add(other.Days120Plus)
	t.Total = t.Total.Add(other.Total)
}

// RiskLevel derives the risk class from the bucket distribution: critical when
// anything sits past 120 days, high past 90, medium past 30, otherwise low
func (t BucketTotals) RiskLevel() RiskLevel {
	switch {
	case t.Days120Plus.GreaterThan(decimal.Zero):
		return RiskLevelCritical
	case t.Days91To120.GreaterThan(decimal.Zero):
		return RiskLevelHigh
	case t.Days61To90.GreaterThan(decimal.Zero) || t.Days31To60.GreaterThan(decimal.Zero):
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// CustomerAgingRow is one customer's aging distribution within a report.
// The five buckets always sum to the row total.
type CustomerAgingRow struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	BucketTotals
	SalesCount int       `json:"sales_count"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

// AgingPercentages is each bucket's share of the grand total, as percentages.
// All zero when the grand total is zero.
type AgingPercentages struct {
	Current     decimal.Decimal `json:"current"`
	Days31To60  decimal.Decimal `json:"days_31_60"`
	Days61To90  decimal.Decimal `json:"days_61_90"`
	Days91To120 decimal.Decimal `json:"days_91_120"`
	Days120Plus decimal.Decimal `json:"days_120_plus"`
}

// RiskAnalysis counts customers per risk class
type RiskAnalysis struct {
	Low            int `json:"low"`
	Medium         int `json:"medium"`
	High           int `json:"high"`
	Critical       int `json:"critical"`
	TotalCustomers int `json:"total_customers"`
}

// AgingReport is the portfolio-level rollup of per-customer aging rows
type AgingReport struct {
	AsOf             time.Time          `json:"as_of"`
	CustomerAging    []CustomerAgingRow `json:"customer_aging"`
	TotalAging       BucketTotals       `json:"total_aging"`
	AgingPercentages AgingPercentages   `json:"aging_percentages"`
	RiskAnalysis     RiskAnalysis       `json:"risk_analysis"`
}

// percentOf returns part/total as a percentage rounded to two decimals
func percentOf(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
}

// BuildAgingReport groups outstanding ledger lines by customer, sums amounts
// per bucket, and rolls them up into portfolio totals, percentages, and a
// risk analysis. Rows are ordered by total outstanding descending.
func BuildAgingReport(lines []OutstandingLine, asOf time.Time) *AgingReport {
	rowsByCustomer := make(map[uuid.UUID]*CustomerAgingRow)
	order := make([]uuid.UUID, 0)

	for i := range lines {
		line := &lines[i]
		row, exists := rowsByCustomer[line.CustomerID]
		if !exists {
			row = &CustomerAgingRow{
				CustomerID:   line.CustomerID,
				CustomerName: line.CustomerName,
				BucketTotals: NewBucketTotals(),
			}
			rowsByCustomer[line.CustomerID] = row
			order = append(order, line.CustomerID)
		}
		row.AddToBucket(line.AgingBucket, line.OutstandingAmount)
		row.SalesCount++
	}

	totalAging := NewBucketTotals()
	analysis := RiskAnalysis{}
	rows := make([]CustomerAgingRow, 0, len(order))

	for _, customerID := range order {
		row := rowsByCustomer[customerID]
		row.RiskLevel = row.BucketTotals.RiskLevel()

		totalAging.Add(row.BucketTotals)
		switch row.RiskLevel {
		case RiskLevelCritical:
			analysis.Critical++
		case RiskLevelHigh:
			analysis.High++
		case RiskLevelMedium:
			analysis.Medium++
		default:
			analysis.Low++
		}
		analysis.TotalCustomers++

		rows = append(rows, *row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total.GreaterThan(rows[j].Total)
	})

	return &AgingReport{
		AsOf:          asOf,
		CustomerAging: rows,
		TotalAging:    totalAging,
		AgingPercentages: AgingPercentages{
			Current:     percentOf(totalAging.Current, totalAging.Total),
			Days31To60:  percentOf(totalAging.Days31To60, totalAging.Total),
			Days61To90:  percentOf(totalAging.Days61To90, totalAging.Total),
			Days91To120: percentOf(totalAging.Days91To120, totalAging.Total),
			Days120Plus: percentOf(totalAging.Days120Plus, totalAging.Total),
		},
		RiskAnalysis: analysis,
	}
}
