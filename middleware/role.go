package middleware

import (
	"errors"
	"slices"

	"payhook/models"
	"payhook/services"

	"github.com/gofiber/fiber/v2"
)

func loadUser(c *fiber.Ctx, users *services.UserService) (*models.User, error) {
	if user, ok := c.Locals("user").(*models.User); ok {
		return user, nil
	}

	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	user, err := users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return nil, JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		return nil, JsonResponse(c, fiber.StatusInternalServerError, false, "Server error while loading user!", nil)
	}

	c.Locals("user", user)
	return user, nil
}

// CurrentUser loads the authenticated user into the "user" local. It must run
// after JWTMiddleware.
func CurrentUser(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadUser(c, users)
		if user == nil {
			return err
		}
		return c.Next()
	}
}

// RequireRoles rejects users whose stored role is not one of roles. The role
// comes from the database rather than the token, so a demotion applies at once.
func RequireRoles(users *services.UserService, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := loadUser(c, users)
		if user == nil {
			return err
		}
		if !slices.Contains(roles, user.Role) {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
		return c.Next()
	}
}
