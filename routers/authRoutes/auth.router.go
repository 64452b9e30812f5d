package authRoutes

import (
	authController "payhook/controllers/auth"
	authValidator "payhook/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(router fiber.Router, ctl *authController.Controller) {
	authGroup := router.Group("/auth")

	authGroup.Post("/register", authValidator.Register(), ctl.Register)
	authGroup.Post("/login", authValidator.Login(), ctl.Login)
	authGroup.Post("/refresh", authValidator.Refresh(), ctl.Refresh)
}
