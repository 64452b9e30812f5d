package utils

import (
	"context"
	"log"
	"time"

	"payhook/services"

	"github.com/robfig/cron/v3"
)

// InitializePaymentScheduler starts the daily payment summary job and returns
// the running scheduler so the caller can stop it on shutdown
func InitializePaymentScheduler(stats *services.PaymentStats, spec string) (*cron.Cron, error) {
	log.Println("[PAYMENT-SCHEDULER] Initializing payment scheduler...")

	c := cron.New()

	if _, err := c.AddFunc(spec, func() {
		log.Println("[PAYMENT-SCHEDULER] Running daily payment summary...")
		LogPaymentSummary(context.Background(), stats, time.Now().AddDate(0, 0, -1))
	}); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[PAYMENT-SCHEDULER] Payment scheduler started - schedule %q", spec)
	return c, nil
}

// LogPaymentSummary logs the payment count and total of day
func LogPaymentSummary(ctx context.Context, stats *services.PaymentStats, day time.Time) *services.PaymentSummary {
	summary, err := stats.DailySummary(ctx, day)
	if err != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error summarising payments: %v", err)
		return nil
	}

	log.Printf("[PAYMENT-SCHEDULER] %s: %d payments, total %s", summary.Date, summary.Count, summary.Total.StringFixed(2))
	return summary
}
