package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"payhook/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func accountBalance(t *testing.T, db *gorm.DB, accountID uint) decimal.Decimal {
	t.Helper()
	var account models.Account
	require.NoError(t, db.Take(&account, accountID).Error)
	return account.Balance
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestProcessCreatesMissingAccount(t *testing.T) {
	db := newLedgerDB(t)
	p := NewWebhookProcessor(db, testSecret)

	f, sig := signedFields(7, 3, "10.50", "tx-new-account")
	payment, err := p.Process(context.Background(), f, sig)
	require.NoError(t, err)

	assert.Equal(t, "tx-new-account", payment.TransactionID)
	assert.Equal(t, uint(7), payment.AccountID)
	assert.Equal(t, uint(3), payment.UserID)
	assertDecimal(t, "10.50", payment.Amount)

	var account models.Account
	require.NoError(t, db.Take(&account, 7).Error)
	assert.Equal(t, uint(3), account.UserID)
	assertDecimal(t, "10.50", account.Balance)
}

func TestProcessCreditsExistingAccount(t *testing.T) {
	db := newLedgerDB(t)
	ctx := context.Background()
	id := uint(4)
	_, err := NewLedger(db).CreateAccount(ctx, 2, decimal.RequireFromString("100"), &id)
	require.NoError(t, err)

	p := NewWebhookProcessor(db, testSecret)
	f, sig := signedFields(4, 2, "2.25", "tx-credit")
	_, err = p.Process(ctx, f, sig)
	require.NoError(t, err)

	assertDecimal(t, "102.25", accountBalance(t, db, 4))
	assert.Equal(t, int64(1), countRows(t, db, &models.Account{}))
}

func TestProcessRejectsDuplicateTransaction(t *testing.T) {
	db := newLedgerDB(t)
	p := NewWebhookProcessor(db, testSecret)
	ctx := context.Background()

	f, sig := signedFields(1, 1, "10", "tx-dup")
	_, err := p.Process(ctx, f, sig)
	require.NoError(t, err)

	_, err = p.Process(ctx, f, sig)
	assert.ErrorIs(t, err, ErrDuplicateTransaction)
	assert.NotErrorIs(t, err, ErrStorageFailure)

	assert.Equal(t, int64(1), countRows(t, db, &models.Payment{}))
	assertDecimal(t, "10", accountBalance(t, db, 1))
}

func TestProcessRejectsBadSignatureWithoutWrites(t *testing.T) {
	db := newLedgerDB(t)
	p := NewWebhookProcessor(db, testSecret)

	f, _ := signedFields(1, 1, "10", "tx-bad-sig")
	_, err := p.Process(context.Background(), f, Sign(f, "wrong-secret"))
	assert.ErrorIs(t, err, ErrInvalidSignature)

	assert.Equal(t, int64(0), countRows(t, db, &models.Payment{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Account{}))
}

func TestProcessRejectsAccountOfAnotherUser(t *testing.T) {
	db := newLedgerDB(t)
	ctx := context.Background()
	id := uint(5)
	_, err := NewLedger(db).CreateAccount(ctx, 1, decimal.Zero, &id)
	require.NoError(t, err)

	p := NewWebhookProcessor(db, testSecret)
	f, sig := signedFields(5, 2, "10", "tx-foreign")
	_, err = p.Process(ctx, f, sig)
	assert.ErrorIs(t, err, ErrAccountOwnership)

	assert.Equal(t, int64(0), countRows(t, db, &models.Payment{}))
	assertDecimal(t, "0", accountBalance(t, db, 5))
}

func TestProcessStoresCanonicalTransactionID(t *testing.T) {
	db := newLedgerDB(t)
	p := NewWebhookProcessor(db, testSecret)
	ctx := context.Background()

	f, sig := signedFields(1, 1, "1", "6F1C2A3B4D5E4F608A7B9C0D1E2F3A4B")
	payment, err := p.Process(ctx, f, sig)
	require.NoError(t, err)
	assert.Equal(t, "6f1c2a3b-4d5e-4f60-8a7b-9c0d1e2f3a4b", payment.TransactionID)
	assert.JSONEq(t,
		`{"accountId":1,"amount":"1.0","transactionId":"6f1c2a3b-4d5e-4f60-8a7b-9c0d1e2f3a4b","userId":1}`,
		string(payment.Payload),
	)

	// the same UUID in another spelling is the same transaction
	f2, sig2 := signedFields(1, 1, "1", "6f1c2a3b-4d5e-4f60-8a7b-9c0d1e2f3a4b")
	_, err = p.Process(ctx, f2, sig2)
	assert.ErrorIs(t, err, ErrDuplicateTransaction)
}

func TestProcessRollsBackWhenPaymentInsertFails(t *testing.T) {
	db := newLedgerDB(t)
	ctx := context.Background()
	id := uint(1)
	_, err := NewLedger(db).CreateAccount(ctx, 1, decimal.RequireFromString("50"), &id)
	require.NoError(t, err)

	boom := errors.New("disk full")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_payment", func(tx *gorm.DB) {
		if tx.Statement.Table == "payments" {
			tx.AddError(boom)
		}
	}))

	p := NewWebhookProcessor(db, testSecret)
	f, sig := signedFields(1, 1, "10", "tx-rollback")
	_, err = p.Process(ctx, f, sig)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.ErrorIs(t, err, boom)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create payment", se.Op)

	assertDecimal(t, "50", accountBalance(t, db, 1))
	assert.Equal(t, int64(0), countRows(t, db, &models.Payment{}))
}

func TestProcessRollsBackCreatedAccountOnLateDuplicate(t *testing.T) {
	db := newLedgerDB(t)

	// a concurrent delivery winning the race surfaces as a unique violation
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:dup_payment", func(tx *gorm.DB) {
		if tx.Statement.Table == "payments" {
			tx.AddError(gorm.ErrDuplicatedKey)
		}
	}))

	p := NewWebhookProcessor(db, testSecret)
	f, sig := signedFields(8, 1, "10", "tx-race")
	_, err := p.Process(context.Background(), f, sig)
	assert.ErrorIs(t, err, ErrDuplicateTransaction)

	assert.Equal(t, int64(0), countRows(t, db, &models.Account{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Payment{}))
}

// The sqlite pool holds one connection, so these deliveries run one after
// another. They check that serialized processing adds up; the unique-index
// race itself is covered by TestProcessRollsBackCreatedAccountOnLateDuplicate.
func TestProcessSerializedDeliveriesSumOnAccount(t *testing.T) {
	db := newLedgerDB(t)
	p := NewWebhookProcessor(db, testSecret)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f, sig := signedFields(3, 1, "1.5", fmt.Sprintf("tx-concurrent-%d", i))
			_, errs[i] = p.Process(ctx, f, sig)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "delivery %d", i)
	}
	assertDecimal(t, "15", accountBalance(t, db, 3))
	assert.Equal(t, int64(n), countRows(t, db, &models.Payment{}))
}

func TestProcessSerializedRedeliveryCreditsOnce(t *testing.T) {
	db := newLedgerDB(t)
	p := NewWebhookProcessor(db, testSecret)
	ctx := context.Background()

	f, sig := signedFields(2, 1, "20", "tx-same")

	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = p.Process(ctx, f, sig)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateTransaction)
	}
	assert.Equal(t, 1, succeeded)
	assertDecimal(t, "20", accountBalance(t, db, 2))
	assert.Equal(t, int64(1), countRows(t, db, &models.Payment{}))
}

func TestProcessAllowsNegativeAmount(t *testing.T) {
	db := newLedgerDB(t)
	p := NewWebhookProcessor(db, testSecret)
	ctx := context.Background()

	f, sig := signedFields(1, 1, "10", "tx-in")
	_, err := p.Process(ctx, f, sig)
	require.NoError(t, err)

	f, sig = signedFields(1, 1, "-4", "tx-refund")
	_, err = p.Process(ctx, f, sig)
	require.NoError(t, err)

	assertDecimal(t, "6", accountBalance(t, db, 1))
}

func TestProcessRejectsUnknownUser(t *testing.T) {
	db := newLedgerDB(t)
	p := NewWebhookProcessor(db, testSecret)

	f, sig := signedFields(7, 999, "10", "tx-orphan")
	_, err := p.Process(context.Background(), f, sig)
	assert.ErrorIs(t, err, ErrOwnerNotFound)
	assert.NotErrorIs(t, err, ErrStorageFailure)

	assert.Equal(t, int64(0), countRows(t, db, &models.Account{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Payment{}))
}

func TestProcessRejectsOutOfRangeAmount(t *testing.T) {
	db := newLedgerDB(t)
	p := NewWebhookProcessor(db, testSecret)

	for _, amount := range []string{"0.001", "0.00001", "12345678901", "1e20"} {
		f, sig := signedFields(1, 1, amount, "tx-range-"+amount)
		_, err := p.Process(context.Background(), f, sig)
		assert.ErrorIs(t, err, ErrInvalidAmount, amount)
	}

	assert.Equal(t, int64(0), countRows(t, db, &models.Account{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Payment{}))
}

// hideUnlockedAccountReads makes every plain SELECT on accounts come back
// empty, the way a transaction reading from an older snapshot would miss a
// row committed after the snapshot was taken. Locking reads are untouched.
func hideUnlockedAccountReads(t *testing.T, db *gorm.DB) *int {
	t.Helper()
	locked := 0
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:stale_snapshot", func(tx *gorm.DB) {
		if tx.Statement.Table != "accounts" {
			return
		}
		if _, ok := tx.Statement.Clauses["FOR"]; ok {
			locked++
			return
		}
		tx.Statement.AddClause(clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "1 = 0"}}})
	}))
	return &locked
}

func TestProcessCreditsAccountCommittedAfterSnapshot(t *testing.T) {
	db := newLedgerDB(t)
	ctx := context.Background()
	id := uint(7)
	_, err := NewLedger(db).CreateAccount(ctx, 3, decimal.Zero, &id)
	require.NoError(t, err)

	locked := hideUnlockedAccountReads(t, db)

	p := NewWebhookProcessor(db, testSecret)
	f, sig := signedFields(7, 3, "10", "tx-after-snapshot")
	_, err = p.Process(ctx, f, sig)
	require.NoError(t, err)
	assert.Equal(t, 1, *locked)

	var account models.Account
	require.NoError(t, db.Clauses(clause.Locking{Strength: "SHARE"}).Take(&account, 7).Error)
	assertDecimal(t, "10", account.Balance)
}
