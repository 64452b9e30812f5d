package accountRoutes

import (
	accountController "payhook/controllers/account"
	"payhook/middleware"
	"payhook/models"
	accountValidator "payhook/validators/account"

	"github.com/gofiber/fiber/v2"
)

func SetupAccountRoutes(router fiber.Router, ctl *accountController.Controller, jwt *middleware.JWTManager) {
	accountGroup := router.Group("/accounts", jwt.JWTMiddleware)

	accountGroup.Get("/me", ctl.Mine)
	accountGroup.Post("/", middleware.RequireRoles(ctl.Users, models.RoleAdmin), accountValidator.CreateAccount(), ctl.Create)
}
