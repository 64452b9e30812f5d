package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentFields are the signed fields of a payment webhook
type PaymentFields struct {
	AccountID     uint
	UserID        uint
	Amount        decimal.Decimal
	TransactionID string
}

// signedValues returns the field values ordered by field name:
// accountId, amount, transactionId, userId.
func (f PaymentFields) signedValues() []string {
	return []string{
		strconv.FormatUint(uint64(f.AccountID), 10),
		FormatAmount(f.Amount),
		CanonicalTransactionID(f.TransactionID),
		strconv.FormatUint(uint64(f.UserID), 10),
	}
}

const (
	maxAmountScale   = 2
	maxAmountIntDigs = 10
)

// SignableAmount reports whether d fits a balance column: at most 2 fractional
// digits and 10 integer digits. Inside that range FormatAmount agrees with the
// processor's float rendering.
func SignableAmount(d decimal.Decimal) bool {
	s := d.Abs().String()
	intPart, frac, _ := strings.Cut(s, ".")
	return len(frac) <= maxAmountScale && len(intPart) <= maxAmountIntDigs
}

// FormatAmount renders an amount decimal-exact as the shortest string that
// keeps at least one fractional digit: 10.00 -> "10.0", 10.50 -> "10.5".
// Negative zero renders as "0.0".
func FormatAmount(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// CanonicalTransactionID lowercases and hyphenates UUIDs. Anything else is
// returned unchanged.
func CanonicalTransactionID(id string) string {
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// Sign derives the hex SHA-256 signature of the payment fields and secret
func Sign(f PaymentFields, secret string) string {
	raw := strings.Join(f.signedValues(), "") + secret
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether signature matches the one derived from f and secret
func Verify(f PaymentFields, signature, secret string) bool {
	expected := Sign(f, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
