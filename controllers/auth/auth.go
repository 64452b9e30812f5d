package authController

import (
	"errors"
	"log"

	"payhook/middleware"
	"payhook/models"
	"payhook/services"
	authValidator "payhook/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Users *services.UserService
	JWT   *middleware.JWTManager
}

func (ctl *Controller) Register(c *fiber.Ctx) error {
	reqData, ok := c.Locals(authValidator.RegisterKey).(*authValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// public sign-up never grants ADMIN
	user, err := ctl.Users.Create(c.UserContext(), reqData.Email, reqData.Password, reqData.FullName, models.RoleUser)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}
		log.Printf("Error registering user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	tokens, err := ctl.JWT.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating tokens: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	log.Printf("User %d registered: %s", user.ID, user.Email)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", tokens)
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals(authValidator.LoginKey).(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	user, err := ctl.Users.Authenticate(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Printf("Failed login for %s from %s", reqData.Email, c.IP())
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
		}
		log.Printf("Error authenticating user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	tokens, err := ctl.JWT.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	log.Printf("User %d logged in from IP: %s", user.ID, c.IP())
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", tokens)
}

// Refresh trades a refresh token for a new token pair carrying the user's current role
func (ctl *Controller) Refresh(c *fiber.Ctx) error {
	reqData, ok := c.Locals(authValidator.RefreshKey).(*authValidator.RefreshRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	claims, err := ctl.JWT.Parse(reqData.RefreshToken, middleware.TokenTypeRefresh)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	user, err := ctl.Users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	tokens, err := ctl.JWT.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed.", tokens)
}
