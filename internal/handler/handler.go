package handler

import (
	"go-umkm-inventory/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// parseIDParam reads the :id path parameter as a UUID.
func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.BadRequest("Invalid ID format")
	}
	return id, nil
}

func errInvalidBody() error {
	return apperr.BadRequest("Invalid request body")
}
