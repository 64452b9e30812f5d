package accountController

import (
	"errors"
	"log"

	"payhook/middleware"
	"payhook/services"
	accountValidator "payhook/validators/account"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Controller struct {
	Users  *services.UserService
	Ledger *services.Ledger
}

// Mine returns the authenticated user's accounts
func (ctl *Controller) Mine(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	accounts, err := ctl.Ledger.ListByUser(c.UserContext(), userId)
	if err != nil {
		log.Printf("Error listing accounts for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch accounts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Accounts fetched!", fiber.Map{
		"accounts": accounts,
	})
}

// Create opens an account for a user (Admin only)
func (ctl *Controller) Create(c *fiber.Ctx) error {
	reqData, ok := c.Locals(accountValidator.CreateAccountKey).(*accountValidator.CreateAccountRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if _, err := ctl.Users.GetByID(c.UserContext(), reqData.UserID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	balance := decimal.Zero
	if reqData.Balance != nil {
		balance = reqData.Balance.Round(2)
	}

	account, err := ctl.Ledger.CreateAccount(c.UserContext(), reqData.UserID, balance, reqData.ID)
	if err != nil {
		if errors.Is(err, services.ErrAccountExists) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Account id already in use!", nil)
		}
		if errors.Is(err, services.ErrOwnerNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		log.Printf("Error creating account: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Account created successfully.", account)
}
