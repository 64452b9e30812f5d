package paymentController

import (
	"errors"
	"log"
	"time"

	"payhook/middleware"
	"payhook/services"
	paymentValidator "payhook/validators/payment"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Webhooks *services.WebhookProcessor
	Stats    *services.PaymentStats
}

// Webhook handles a payment notification from the payment processor. It is
// authenticated by the payload signature only, never by a session token.
func (ctl *Controller) Webhook(c *fiber.Ctx) error {
	reqData, ok := c.Locals(paymentValidator.WebhookKey).(*paymentValidator.WebhookRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	fields := services.PaymentFields{
		AccountID:     reqData.AccountID,
		UserID:        reqData.UserID,
		Amount:        *reqData.Amount,
		TransactionID: reqData.TransactionID,
	}

	_, err := ctl.Webhooks.Process(c.UserContext(), fields, reqData.Signature)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"status": "success"})
	case errors.Is(err, services.ErrInvalidSignature):
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid signature!", nil)
	case errors.Is(err, services.ErrDuplicateTransaction):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction already processed!", nil)
	case errors.Is(err, services.ErrAccountOwnership):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Account belongs to another user!", nil)
	case errors.Is(err, services.ErrOwnerNotFound):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "User does not exist!", nil)
	case errors.Is(err, services.ErrInvalidAmount):
		return middleware.ValidationErrorResponse(c, map[string]string{"amount": "amount is out of range!"})
	default:
		log.Printf("Error processing payment webhook %s: %v", reqData.TransactionID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process payment!", nil)
	}
}

// Summary returns the payment count and total for a day (Admin only)
func (ctl *Controller) Summary(c *fiber.Ctx) error {
	reqData, ok := c.Locals(paymentValidator.SummaryKey).(*paymentValidator.SummaryQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	day := time.Now()
	if reqData.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", reqData.Date, time.Local)
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"date": "date must use the format 2006-01-02!"})
		}
		day = parsed
	}

	summary, err := ctl.Stats.DailySummary(c.UserContext(), day)
	if err != nil {
		log.Printf("Error building payment summary: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch summary!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment summary fetched!", summary)
}
