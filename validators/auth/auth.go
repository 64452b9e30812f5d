package authValidator

import (
	"payhook/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	RegisterKey = "validatedRegister"
	LoginKey    = "validatedLogin"
	RefreshKey  = "validatedRefresh"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// Register validator middleware
func Register() fiber.Handler {
	return validators.Body[RegisterRequest](RegisterKey)
}

// Login validator middleware
func Login() fiber.Handler {
	return validators.Body[LoginRequest](LoginKey)
}

// Refresh validator middleware
func Refresh() fiber.Handler {
	return validators.Body[RefreshRequest](RefreshKey)
}
