package userRoutes

import (
	userController "payhook/controllers/user"
	"payhook/middleware"
	"payhook/models"
	userValidator "payhook/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(router fiber.Router, ctl *userController.Controller, jwt *middleware.JWTManager) {
	userGroup := router.Group("/users", jwt.JWTMiddleware)

	// User routes
	userGroup.Get("/me", middleware.CurrentUser(ctl.Users), ctl.Me)
	userGroup.Get("/me/accounts", ctl.MyAccounts)
	userGroup.Get("/me/payments", ctl.MyPayments)

	// Admin routes
	admin := middleware.RequireRoles(ctl.Users, models.RoleAdmin)
	userGroup.Get("/", admin, ctl.List)
	userGroup.Post("/", admin, userValidator.CreateUser(), ctl.Create)
	userGroup.Get("/:id", admin, ctl.Get)
	userGroup.Patch("/:id", admin, userValidator.UpdateUser(), ctl.Update)
	userGroup.Delete("/:id", admin, ctl.Delete)
}
