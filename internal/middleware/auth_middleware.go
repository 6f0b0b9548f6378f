package middleware

import (
	"strings"

	"go-umkm-inventory/internal/auth"
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/internal/repository"
	"go-umkm-inventory/pkg/apperr"
	"go-umkm-inventory/pkg/jwt"
	"go-umkm-inventory/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the bearer token and loads the account fresh from the
// database, so role and organization changes apply immediately instead of
// waiting for the token to expire.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return response.Error(c, apperr.Unauthenticated("Missing authorization token"))
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return response.Error(c, apperr.Unauthenticated("Invalid authorization header format"))
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return response.Error(c, apperr.Unauthenticated("Invalid or expired token"))
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return response.Error(c, apperr.Unauthenticated("Invalid or expired token"))
		}

		auth.Store(c, auth.Caller{
			UserID:         user.ID,
			Name:           user.Name,
			Email:          user.Email,
			Role:           user.Role,
			OrganizationID: user.OrganizationID,
		})
		return c.Next()
	}
}

// RequireRole gates a route group to the given roles. Runs after RequireAuth.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := auth.FromFiber(c)
		if err != nil {
			return response.Error(c, err)
		}
		if err := caller.RequireRole(roles...); err != nil {
			return response.Error(c, err)
		}
		return c.Next()
	}
}
