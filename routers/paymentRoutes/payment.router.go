package paymentRoutes

import (
	paymentController "payhook/controllers/payment"
	"payhook/middleware"
	"payhook/models"
	"payhook/services"
	paymentValidator "payhook/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(router fiber.Router, ctl *paymentController.Controller, jwt *middleware.JWTManager, users *services.UserService) {
	paymentGroup := router.Group("/payments")

	// Server-to-server, authenticated by signature
	paymentGroup.Post("/webhook", paymentValidator.Webhook(), ctl.Webhook)

	// Admin routes
	adminGroup := paymentGroup.Group("/admin", jwt.JWTMiddleware, middleware.RequireRoles(users, models.RoleAdmin))
	adminGroup.Get("/summary", paymentValidator.Summary(), ctl.Summary)
}
