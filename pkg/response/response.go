package response

import (
	"go-umkm-inventory/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the JSON body shape of every API response.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Err     string            `json:"error,omitempty"`
}

func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error renders any service failure using the apperr taxonomy. The underlying
// cause is only exposed for internal errors, matching the API contract.
func Error(c *fiber.Ctx, err error) error {
	appErr := apperr.From(err)
	body := Envelope{
		Status:  "error",
		Message: appErr.Message,
		Errors:  appErr.Fields,
	}
	if appErr.Code == apperr.CodeInternal && appErr.Cause != nil {
		body.Err = appErr.Cause.Error()
	}
	return c.Status(appErr.Code.HTTPStatus()).JSON(body)
}
