package services

import (
	"context"
	"errors"
	"fmt"

	"payhook/models"

	"gorm.io/gorm"
)

// PaymentRecorder persists payments. transaction_id is unique in the store,
// so Create is the last line of defence against double processing.
type PaymentRecorder struct {
	db *gorm.DB
}

func NewPaymentRecorder(db *gorm.DB) *PaymentRecorder {
	return &PaymentRecorder{db: db}
}

// WithTx returns a PaymentRecorder bound to tx
func (r *PaymentRecorder) WithTx(tx *gorm.DB) *PaymentRecorder {
	return &PaymentRecorder{db: tx}
}

// FindByTransactionID returns the payment with the given transaction id, or nil
func (r *PaymentRecorder) FindByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Take(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("find payment", err)
	}
	return &payment, nil
}

// Create inserts payment. A transaction id that is already stored yields
// ErrDuplicateTransaction.
func (r *PaymentRecorder) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("transaction %s: %w", payment.TransactionID, ErrDuplicateTransaction)
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("user %d: %w", payment.UserID, ErrOwnerNotFound)
		}
		return nil, storageErr("create payment", err)
	}
	return payment, nil
}

// ListByUser returns the user's payments, newest first
func (r *PaymentRecorder) ListByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	payments := []models.Payment{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&payments).Error; err != nil {
		return nil, storageErr("list payments", err)
	}
	return payments, nil
}
