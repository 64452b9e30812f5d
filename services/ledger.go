package services

import (
	"context"
	"errors"
	"fmt"

	"payhook/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger reads and mutates accounts
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx returns a Ledger bound to tx
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// FindAccount returns the account matching both ids, or nil when there is none
func (l *Ledger) FindAccount(ctx context.Context, accountID, userID uint) (*models.Account, error) {
	return l.findAccount(l.db.WithContext(ctx), accountID, userID)
}

// findAccountLocked is FindAccount as a shared-lock read. A locking read sees
// the latest committed row even where the transaction reads from a snapshot
// (MySQL REPEATABLE READ).
func (l *Ledger) findAccountLocked(ctx context.Context, accountID, userID uint) (*models.Account, error) {
	return l.findAccount(l.db.WithContext(ctx).Clauses(clause.Locking{Strength: "SHARE"}), accountID, userID)
}

func (l *Ledger) findAccount(db *gorm.DB, accountID, userID uint) (*models.Account, error) {
	var account models.Account
	err := db.
		Where("id = ? AND user_id = ?", accountID, userID).
		Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("find account", err)
	}
	return &account, nil
}

// ListByUser returns all accounts owned by userID
func (l *Ledger) ListByUser(ctx context.Context, userID uint) ([]models.Account, error) {
	accounts := []models.Account{}
	if err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&accounts).Error; err != nil {
		return nil, storageErr("list accounts", err)
	}
	return accounts, nil
}

// CreateAccount inserts an account with the given opening balance. A non-nil
// id is used as the primary key instead of an auto-assigned one.
func (l *Ledger) CreateAccount(ctx context.Context, userID uint, balance decimal.Decimal, id *uint) (*models.Account, error) {
	account := models.Account{
		UserID:  userID,
		Balance: balance,
	}
	if id != nil {
		account.ID = *id
	}

	db := l.db.WithContext(ctx)
	if err := db.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("account %d: %w", account.ID, ErrAccountExists)
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrOwnerNotFound)
		}
		return nil, storageErr("create account", err)
	}

	if id != nil && db.Dialector.Name() == "postgres" {
		// keep the serial sequence ahead of externally assigned ids
		if err := db.Exec(
			"SELECT setval(pg_get_serial_sequence('accounts', 'id'), GREATEST((SELECT MAX(id) FROM accounts), 1))",
		).Error; err != nil {
			return nil, storageErr("advance account sequence", err)
		}
	}

	return &account, nil
}

// ApplyDelta adds delta to the account balance in a single UPDATE statement
func (l *Ledger) ApplyDelta(ctx context.Context, accountID uint, delta decimal.Decimal) error {
	res := l.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return storageErr("apply balance delta", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %d: %w", accountID, ErrAccountNotFound)
	}
	return nil
}

// ResolveAccount finds the (accountID, userID) account or creates it with a
// zero balance. The insert runs in a savepoint so that losing a creation race
// to a concurrent delivery leaves the surrounding transaction usable.
func (l *Ledger) ResolveAccount(ctx context.Context, accountID, userID uint) (*models.Account, bool, error) {
	account, err := l.FindAccount(ctx, accountID, userID)
	if err != nil || account != nil {
		return account, false, err
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err = l.WithTx(tx).CreateAccount(ctx, userID, decimal.Zero, &accountID)
		return err
	})
	if err == nil {
		return account, true, nil
	}
	if !errors.Is(err, ErrAccountExists) {
		return nil, false, err
	}

	account, err = l.findAccountLocked(ctx, accountID, userID)
	if err != nil {
		return nil, false, err
	}
	if account == nil {
		return nil, false, fmt.Errorf("account %d: %w", accountID, ErrAccountOwnership)
	}
	return account, false, nil
}
