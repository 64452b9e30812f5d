package userController

import (
	"errors"
	"log"

	"payhook/middleware"
	"payhook/models"
	"payhook/services"
	userValidator "payhook/validators/user"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Users    *services.UserService
	Ledger   *services.Ledger
	Payments *services.PaymentRecorder
}

// Me returns the authenticated user
func (ctl *Controller) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched!", user)
}

func (ctl *Controller) MyAccounts(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	accounts, err := ctl.Ledger.ListByUser(c.UserContext(), userId)
	if err != nil {
		log.Printf("Error listing accounts for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch accounts!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Accounts fetched!", accounts)
}

func (ctl *Controller) MyPayments(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	payments, err := ctl.Payments.ListByUser(c.UserContext(), userId)
	if err != nil {
		log.Printf("Error listing payments for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payments fetched!", payments)
}

// List returns every user (Admin only)
func (ctl *Controller) List(c *fiber.Ctx) error {
	users, err := ctl.Users.List(c.UserContext())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched!", users)
}

// Get returns a user by id (Admin only)
func (ctl *Controller) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	user, err := ctl.Users.GetByID(c.UserContext(), uint(id))
	if err != nil {
		return userError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched!", user)
}

// Create adds a user with any role (Admin only)
func (ctl *Controller) Create(c *fiber.Ctx) error {
	reqData, ok := c.Locals(userValidator.CreateUserKey).(*userValidator.CreateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := ctl.Users.Create(c.UserContext(), reqData.Email, reqData.Password, reqData.FullName, models.Role(reqData.Role))
	if err != nil {
		return userError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User created successfully.", user)
}

// Update changes email, name or role (Admin only)
func (ctl *Controller) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData, ok := c.Locals(userValidator.UpdateUserKey).(*userValidator.UpdateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	upd := services.UserUpdate{Email: reqData.Email, FullName: reqData.FullName}
	if reqData.Role != nil {
		role := models.Role(*reqData.Role)
		upd.Role = &role
	}

	user, err := ctl.Users.Update(c.UserContext(), uint(id), upd)
	if err != nil {
		return userError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully.", user)
}

// Delete removes a user and everything it owns (Admin only)
func (ctl *Controller) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	if err := ctl.Users.Delete(c.UserContext(), uint(id)); err != nil {
		return userError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted.", fiber.Map{"status": "deleted"})
}

func userError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	case errors.Is(err, services.ErrEmailTaken):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	default:
		log.Printf("User operation failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
}
