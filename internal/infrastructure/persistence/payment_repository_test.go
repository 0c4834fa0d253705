package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/erp/receivables/internal/domain/receivable"
	"github.com/erp/receivables/internal/domain/shared"
	"github.com/erp/receivables/internal/domain/shared/valueobject"
)

// newMockPaymentRepository creates a GormPaymentReceiveRepository with a mocked SQL connection
func newMockPaymentRepository(t *testing.T) (*GormPaymentReceiveRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPaymentReceiveRepository(gormDB), mock, mockDB
}

func paymentRows(paymentID, tenantID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "version", "payment_number", "customer_id", "customer_name",
		"total_amount", "allocated_amount", "unallocated_amount", "payment_method",
		"payment_date", "workflow_status", "requires_approval", "allocations",
	}).AddRow(
		paymentID, tenantID, 1, "PAY-20260301-00001", uuid.New(), "Acme Trading",
		decimal.NewFromInt(500), decimal.Zero, decimal.NewFromInt(500), "BANK_TRANSFER",
		time.Now(), "DRAFT", false, []byte("[]"),
	)
}

func newTestPaymentReceive(t *testing.T) *receivable.PaymentReceive {
	t.Helper()
	payment, err := receivable.NewPaymentReceive(uuid.New(), "PAY-20260301-00001", uuid.New(), "Acme Trading",
		valueobject.NewMoneyUSDFromFloat(500), receivable.PaymentMethodBankTransfer, time.Now(), "TXN-001", false)
	require.NoError(t, err)
	return payment
}

func TestGormPaymentReceiveRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds payment within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		paymentID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "payment_receives" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, paymentID, 1).
			WillReturnRows(paymentRows(paymentID, tenantID))

		payment, err := repo.FindByIDForTenant(context.Background(), tenantID, paymentID)

		assert.NoError(t, err)
		assert.NotNil(t, payment)
		assert.Equal(t, paymentID, payment.ID)
		assert.Equal(t, receivable.WorkflowStatusDraft, payment.WorkflowStatus)
		assert.Empty(t, payment.Allocations)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil without error for missing payment", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		paymentID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "payment_receives" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, paymentID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		payment, err := repo.FindByIDForTenant(context.Background(), tenantID, paymentID)

		assert.NoError(t, err)
		assert.Nil(t, payment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentReceiveRepository_FindByStatus(t *testing.T) {
	t.Run("filters by workflow status", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "payment_receives" WHERE tenant_id = \$1 AND workflow_status = \$2`).
			WithArgs(tenantID, receivable.WorkflowStatusPendingVerification).
			WillReturnRows(paymentRows(uuid.New(), tenantID))

		payments, err := repo.FindByStatus(context.Background(), tenantID,
			receivable.WorkflowStatusPendingVerification, receivable.PaymentReceiveFilter{})

		assert.NoError(t, err)
		assert.Len(t, payments, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentReceiveRepository_Save(t *testing.T) {
	t.Run("saves payment", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		payment := newTestPaymentReceive(t)

		mock.ExpectExec(`UPDATE "payment_receives" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Save(context.Background(), payment))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentReceiveRepository_SaveWithLock(t *testing.T) {
	t.Run("saves when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		payment := newTestPaymentReceive(t)
		payment.IncrementVersion()

		mock.ExpectExec(`UPDATE "payment_receives" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SaveWithLock(context.Background(), payment))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when version check fails", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		payment := newTestPaymentReceive(t)
		payment.IncrementVersion()

		mock.ExpectExec(`UPDATE "payment_receives" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), payment)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentReceiveRepository_CountByStatus(t *testing.T) {
	t.Run("counts payments by status", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "payment_receives" WHERE tenant_id = \$1 AND workflow_status = \$2`).
			WithArgs(tenantID, receivable.WorkflowStatusCompleted).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountByStatus(context.Background(), tenantID, receivable.WorkflowStatusCompleted)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentReceiveRepository_SumCompletedByCustomer(t *testing.T) {
	t.Run("sums completed payments", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		customerID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) as total FROM "payment_receives"`).
			WithArgs(tenantID, customerID, receivable.WorkflowStatusCompleted).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.NewFromInt(2500)))

		total, err := repo.SumCompletedByCustomer(context.Background(), tenantID, customerID)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(2500)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentReceiveRepository_GeneratePaymentNumber(t *testing.T) {
	t.Run("increments existing sequence", func(t *testing.T) {
		repo, mock, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		today := time.Now().Format("20060102")

		mock.ExpectQuery(`SELECT "payment_number" FROM "payment_receives"`).
			WillReturnRows(sqlmock.NewRows([]string{"payment_number"}).AddRow("PAY-" + today + "-00012"))

		number, err := repo.GeneratePaymentNumber(context.Background(), tenantID)

		assert.NoError(t, err)
		assert.Equal(t, "PAY-"+today+"-00013", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPaymentReceiveRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements PaymentReceiveRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockPaymentRepository(t)
		defer mockDB.Close()

		var _ receivable.PaymentReceiveRepository = repo
	})
}
