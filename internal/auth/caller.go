package auth

import (
	"go-umkm-inventory/internal/model"
	"go-umkm-inventory/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Caller is the explicit request context every service operation receives:
// who is calling, with which role, inside which organization. Nothing in the
// core layers reads ambient session state.
type Caller struct {
	UserID         uuid.UUID
	Name           string
	Email          string
	Role           model.Role
	OrganizationID *uuid.UUID
}

const callerKey = "caller"

// Store puts the caller into the fiber request context.
func Store(c *fiber.Ctx, caller Caller) {
	c.Locals(callerKey, caller)
}

// FromFiber retrieves the caller placed by the auth middleware.
func FromFiber(c *fiber.Ctx) (Caller, error) {
	caller, ok := c.Locals(callerKey).(Caller)
	if !ok {
		return Caller{}, apperr.Unauthenticated("Missing authorization token")
	}
	return caller, nil
}

// RequireRole rejects callers whose role is outside the permitted set.
func (c Caller) RequireRole(roles ...model.Role) error {
	if c.Role.In(roles...) {
		return nil
	}
	if len(roles) == 1 && roles[0] == model.RoleAdmin {
		return apperr.Forbidden("Access denied. Only admin can perform this action.")
	}
	return apperr.Forbidden("Access denied. Only admin or staff can perform this action.")
}

// Organization returns the caller's organization id, or TenantRequired when
// the account is not associated with one yet.
func (c Caller) Organization() (uuid.UUID, error) {
	if c.OrganizationID == nil || *c.OrganizationID == uuid.Nil {
		return uuid.Nil, apperr.TenantRequired("You need to be associated with an organization to perform this action.")
	}
	return *c.OrganizationID, nil
}
