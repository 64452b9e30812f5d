package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"payhook/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WebhookState is a step of payment webhook processing
type WebhookState string

const (
	StateReceived          WebhookState = "RECEIVED"
	StateSignatureVerified WebhookState = "SIGNATURE_VERIFIED"
	StateDedupChecked      WebhookState = "DEDUP_CHECKED"
	StateAccountResolved   WebhookState = "ACCOUNT_RESOLVED"
	StateBalanceUpdated    WebhookState = "BALANCE_UPDATED"
	StatePaymentRecorded   WebhookState = "PAYMENT_RECORDED"
	StateFailed            WebhookState = "FAILED"
)

// WebhookProcessor turns a signed payment notification into a credited
// account and a stored payment.
type WebhookProcessor struct {
	db       *gorm.DB
	secret   string
	ledger   *Ledger
	payments *PaymentRecorder
}

func NewWebhookProcessor(db *gorm.DB, secret string) *WebhookProcessor {
	return &WebhookProcessor{
		db:       db,
		secret:   secret,
		ledger:   NewLedger(db),
		payments: NewPaymentRecorder(db),
	}
}

// Process verifies the signature, then records the payment and credits the
// account in one transaction. It returns ErrInvalidSignature,
// ErrInvalidAmount, ErrDuplicateTransaction, ErrAccountOwnership,
// ErrOwnerNotFound or a *StorageError on failure; in every failure case
// nothing has been written.
func (p *WebhookProcessor) Process(ctx context.Context, fields PaymentFields, signature string) (*models.Payment, error) {
	state := StateReceived
	txID := CanonicalTransactionID(fields.TransactionID)

	if !SignableAmount(fields.Amount) {
		log.Printf("[WEBHOOK] %s -> %s: amount %s out of range for transaction %s", state, StateFailed, fields.Amount, txID)
		return nil, fmt.Errorf("amount %s: %w", fields.Amount, ErrInvalidAmount)
	}
	if !Verify(fields, signature, p.secret) {
		log.Printf("[WEBHOOK] %s -> %s: invalid signature for transaction %s", state, StateFailed, txID)
		return nil, ErrInvalidSignature
	}
	state = StateSignatureVerified

	payload, err := json.Marshal(map[string]any{
		"accountId":     fields.AccountID,
		"amount":        FormatAmount(fields.Amount),
		"transactionId": txID,
		"userId":        fields.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	amount := fields.Amount.Round(2)

	var payment *models.Payment
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ledger := p.ledger.WithTx(tx)
		payments := p.payments.WithTx(tx)

		existing, err := payments.FindByTransactionID(ctx, txID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("transaction %s: %w", txID, ErrDuplicateTransaction)
		}
		state = StateDedupChecked

		account, created, err := ledger.ResolveAccount(ctx, fields.AccountID, fields.UserID)
		if err != nil {
			return err
		}
		if created {
			log.Printf("[WEBHOOK] created account %d for user %d", account.ID, fields.UserID)
		}
		state = StateAccountResolved

		if err := ledger.ApplyDelta(ctx, account.ID, amount); err != nil {
			return err
		}
		state = StateBalanceUpdated

		payment, err = payments.Create(ctx, &models.Payment{
			TransactionID: txID,
			Amount:        amount,
			UserID:        fields.UserID,
			AccountID:     account.ID,
			Payload:       datatypes.JSON(payload),
		})
		if err != nil {
			return err
		}
		state = StatePaymentRecorded
		return nil
	})
	if err != nil {
		log.Printf("[WEBHOOK] %s -> %s: transaction %s: %v", state, StateFailed, txID, err)
		return nil, storageErr("process payment webhook", err)
	}

	log.Printf("[WEBHOOK] %s: transaction %s credited %s to account %d", state, txID, amount.StringFixed(2), payment.AccountID)
	return payment, nil
}
