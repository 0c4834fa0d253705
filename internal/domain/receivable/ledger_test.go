package receivable

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

func outstandingSale(t *testing.T, customerID uuid.UUID, number string, amount float64, daysOverdue int) Sale {
	t.Helper()
	saleDate := time.Now().AddDate(0, 0, -daysOverdue-30)
	var dueDate *time.Time
	d := time.Now().AddDate(0, 0, -daysOverdue)
	dueDate = &d

	s, err := NewSale(uuid.New(), number, customerID, "Ledger Customer", saleDate, dueDate, valueobject.NewMoneyUSDFromFloat(amount))
	require.NoError(t, err)
	return *s
}

func TestBuildOutstandingLines_SkipsSettledAndCancelled(t *testing.T) {
	customerID := uuid.New()
	asOf := time.Now()

	open := outstandingSale(t, customerID, "SAL-OPEN", 100, 5)

	settled := outstandingSale(t, customerID, "SAL-SETTLED", 100, 5)
	require.NoError(t, settled.ApplyAllocation(valueobject.NewMoneyUSDFromFloat(100), uuid.New()))

	cancelled := outstandingSale(t, customerID, "SAL-CANCELLED", 100, 5)
	require.NoError(t, cancelled.Cancel("void"))

	lines := BuildOutstandingLines([]Sale{open, settled, cancelled}, asOf)
	require.Len(t, lines, 1)
	assert.Equal(t, "SAL-OPEN", lines[0].SaleNumber)
}

func TestBuildOutstandingLines_Ordering(t *testing.T) {
	customerID := uuid.New()
	asOf := time.Now()

	low := outstandingSale(t, customerID, "SAL-LOW", 100, 5)
	medium := outstandingSale(t, customerID, "SAL-MED", 100, 45)
	high := outstandingSale(t, customerID, "SAL-HIGH", 100, 70)
	higher := outstandingSale(t, customerID, "SAL-HIGHER", 100, 130)

	lines := BuildOutstandingLines([]Sale{low, medium, higher, high}, asOf)
	require.Len(t, lines, 4)

	// Priority descending, then days overdue descending
	assert.Equal(t, "SAL-HIGHER", lines[0].SaleNumber)
	assert.Equal(t, "SAL-HIGH", lines[1].SaleNumber)
	assert.Equal(t, "SAL-MED", lines[2].SaleNumber)
	assert.Equal(t, "SAL-LOW", lines[3].SaleNumber)

	assert.Equal(t, PriorityHigh, lines[0].Priority)
	assert.Equal(t, AgingBucket120Plus, lines[0].AgingBucket)
	assert.Equal(t, PriorityMedium, lines[2].Priority)
	assert.Equal(t, PriorityLow, lines[3].Priority)
}

func TestBuildOutstandingLines_PartialBalance(t *testing.T) {
	customerID := uuid.New()
	asOf := time.Now()

	s := outstandingSale(t, customerID, "SAL-PART", 500, 10)
	require.NoError(t, s.ApplyAllocation(valueobject.NewMoneyUSDFromFloat(200), uuid.New()))

	lines := BuildOutstandingLines([]Sale{s}, asOf)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].OutstandingAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, lines[0].TotalAmount.Equal(decimal.NewFromInt(500)))
}

func TestTotalOutstanding(t *testing.T) {
	customerID := uuid.New()
	asOf := time.Now()

	lines := BuildOutstandingLines([]Sale{
		outstandingSale(t, customerID, "SAL-1", 150, 5),
		outstandingSale(t, customerID, "SAL-2", 250, 40),
	}, asOf)

	assert.True(t, TotalOutstanding(lines).Equal(decimal.NewFromInt(400)))
}

func TestCandidatesFromLines_PreservesOrder(t *testing.T) {
	customerID := uuid.New()
	asOf := time.Now()

	lines := BuildOutstandingLines([]Sale{
		outstandingSale(t, customerID, "SAL-1", 100, 5),
		outstandingSale(t, customerID, "SAL-2", 100, 70),
	}, asOf)

	candidates := CandidatesFromLines(lines)
	require.Len(t, candidates, 2)
	assert.Equal(t, lines[0].SaleID, candidates[0].SaleID)
	assert.Equal(t, lines[1].SaleID, candidates[1].SaleID)
	assert.Equal(t, lines[0].DaysOverdue, candidates[0].DaysOverdue)
}
