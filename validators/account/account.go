package accountValidator

import (
	"payhook/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const CreateAccountKey = "validatedCreateAccount"

// CreateAccountRequest opens an account explicitly. ID reconciles an account
// number assigned by an external system.
type CreateAccountRequest struct {
	UserID  uint             `json:"userId" validate:"required"`
	Balance *decimal.Decimal `json:"balance" validate:"omitempty,amount"`
	ID      *uint            `json:"id" validate:"omitempty,gt=0"`
}

func CreateAccount() fiber.Handler {
	return validators.Body[CreateAccountRequest](CreateAccountKey)
}
