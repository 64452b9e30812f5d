package services

import (
	"context"
	"time"

	"payhook/models"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentSummary struct {
	Date  string          `json:"date"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type PaymentStats struct {
	db *gorm.DB
}

func NewPaymentStats(db *gorm.DB) *PaymentStats {
	return &PaymentStats{db: db}
}

// DailySummary counts and sums the payments recorded on day's calendar date
func (s *PaymentStats) DailySummary(ctx context.Context, day time.Time) (*PaymentSummary, error) {
	d := now.With(day)
	from, to := d.BeginningOfDay(), d.EndOfDay()

	var row struct {
		Count int64
		Total decimal.Decimal
	}
	if err := s.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("created_at BETWEEN ? AND ?", from, to).
		Scan(&row).Error; err != nil {
		return nil, storageErr("summarise payments", err)
	}

	return &PaymentSummary{
		Date:  from.Format("2006-01-02"),
		Count: row.Count,
		Total: row.Total.Round(2),
	}, nil
}
