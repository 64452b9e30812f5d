package userValidator

import (
	"payhook/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	CreateUserKey = "validatedCreateUser"
	UpdateUserKey = "validatedUpdateUser"
)

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"fullName" validate:"required,max=255"`
	Role     string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	FullName *string `json:"fullName" validate:"omitempty,min=1,max=255"`
	Role     *string `json:"role" validate:"omitempty,oneof=USER ADMIN"`
}

func CreateUser() fiber.Handler {
	return validators.Body[CreateUserRequest](CreateUserKey)
}

func UpdateUser() fiber.Handler {
	return validators.Body[UpdateUserRequest](UpdateUserKey)
}
