package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"payhook/config"
	"payhook/services"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type webhookFlags struct {
	baseURL       string
	accountID     uint
	userID        uint
	amount        string
	transactionID string
	secret        string
	repeat        int
}

func main() {
	if err := newSendWebhookCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newSendWebhookCmd() *cobra.Command {
	f := &webhookFlags{}

	cmd := &cobra.Command{
		Use:   "sendWebhook",
		Short: "Sign a payment notification and deliver it to a running server",
		Long: `Builds a payment webhook, signs it with WEBHOOK_SECRET_KEY (or --secret)
and posts it to <url>/api/v1/payments/webhook. --repeat redelivers the same
transaction to exercise duplicate detection.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.secret == "" {
				f.secret = config.Load().WebhookSecretKey
			}
			return runSendWebhook(f)
		},
	}

	cmd.Flags().StringVar(&f.baseURL, "url", "http://localhost:3000", "server base URL")
	cmd.Flags().UintVar(&f.accountID, "account", 1, "account id")
	cmd.Flags().UintVar(&f.userID, "user", 1, "user id")
	cmd.Flags().StringVar(&f.amount, "amount", "10.00", "payment amount")
	cmd.Flags().StringVar(&f.transactionID, "tx", "", "transaction id (random UUID when empty)")
	cmd.Flags().StringVar(&f.secret, "secret", "", "webhook secret (defaults to WEBHOOK_SECRET_KEY)")
	cmd.Flags().IntVar(&f.repeat, "repeat", 1, "number of deliveries")

	return cmd
}

// buildWebhookBody returns the signed JSON body for a delivery
func buildWebhookBody(fields services.PaymentFields, secret string) map[string]any {
	return map[string]any{
		"accountId":     fields.AccountID,
		"userId":        fields.UserID,
		"amount":        fields.Amount.String(),
		"transactionId": fields.TransactionID,
		"signature":     services.Sign(fields, secret),
	}
}

func runSendWebhook(f *webhookFlags) error {
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", f.amount, err)
	}
	if f.transactionID == "" {
		f.transactionID = uuid.NewString()
	}

	fields := services.PaymentFields{
		AccountID:     f.accountID,
		UserID:        f.userID,
		Amount:        amount,
		TransactionID: f.transactionID,
	}
	body := buildWebhookBody(fields, f.secret)

	client := resty.New().SetBaseURL(strings.TrimRight(f.baseURL, "/"))
	for i := 1; i <= f.repeat; i++ {
		resp, err := client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post("/api/v1/payments/webhook")
		if err != nil {
			return fmt.Errorf("delivery %d failed: %w", i, err)
		}
		log.Printf("Delivery %d of %s: %d %s", i, f.transactionID, resp.StatusCode(), resp.String())
	}
	return nil
}
