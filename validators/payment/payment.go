package paymentValidator

import (
	"payhook/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	WebhookKey = "validatedWebhook"
	SummaryKey = "validatedSummary"
)

// WebhookRequest is the notification posted by the payment processor.
// Amount accepts a JSON number or string.
type WebhookRequest struct {
	AccountID     uint             `json:"accountId" validate:"required"`
	UserID        uint             `json:"userId" validate:"required"`
	Amount        *decimal.Decimal `json:"amount" validate:"required,amount"`
	TransactionID string           `json:"transactionId" validate:"required,max=64"`
	Signature     string           `json:"signature" validate:"required"`
}

type SummaryQuery struct {
	Date string `query:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func Webhook() fiber.Handler {
	return validators.Body[WebhookRequest](WebhookKey)
}

func Summary() fiber.Handler {
	return validators.Query[SummaryQuery](SummaryKey)
}
