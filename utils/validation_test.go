package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
	Day      string `json:"day" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(&sampleRequest{Email: "a@b.co", Password: "longenough"}))

	errs := ValidateStruct(&sampleRequest{Email: "nope", Password: "short", Role: "ROOT", Day: "14/03/2026"})
	assert.Equal(t, map[string]string{
		"email":    "Invalid email!",
		"password": "password must be at least 8 characters long!",
		"role":     "role must be one of: USER ADMIN!",
		"day":      "day must use the format 2006-01-02!",
	}, errs)

	errs = ValidateStruct(&sampleRequest{})
	assert.Equal(t, "email is required!", errs["email"])
	assert.Equal(t, "password is required!", errs["password"])
}

type amountRequest struct {
	Amount  *decimal.Decimal `json:"amount" validate:"required,amount"`
	Balance *decimal.Decimal `json:"balance" validate:"omitempty,amount"`
}

func TestValidateAmount(t *testing.T) {
	amount := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}

	assert.Nil(t, ValidateStruct(&amountRequest{Amount: amount("10.50")}))
	assert.Nil(t, ValidateStruct(&amountRequest{Amount: amount("-4"), Balance: amount("9999999999.99")}))

	errs := ValidateStruct(&amountRequest{Amount: amount("0.00001"), Balance: amount("1e20")})
	assert.Equal(t, "amount must have at most 2 decimal places and 10 integer digits!", errs["amount"])
	assert.Contains(t, errs, "balance")

	errs = ValidateStruct(&amountRequest{})
	assert.Equal(t, "amount is required!", errs["amount"])
}
