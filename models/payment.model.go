package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Payment is written once per transaction id and never updated
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"transactionId"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	UserID        uint            `gorm:"not null;index;index:idx_payments_user_account,priority:1" json:"userId"`
	AccountID     uint            `gorm:"not null;index;index:idx_payments_user_account,priority:2" json:"accountId"`
	Payload       datatypes.JSON  `json:"payload,omitempty"` // signed fields as delivered
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`

	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Account Account `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}
