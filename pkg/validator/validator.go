package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Register custom validation for UUID
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// FieldErrors converts validation failures into the per-field message map the
// API returns in 422 responses. Field names are lowered to their JSON form.
func FieldErrors(errs []*ErrorResponse) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		name := e.FailedField
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		name = toSnake(name)

		var msg string
		switch e.Tag {
		case "required", "uuid_required":
			msg = fmt.Sprintf("The %s field is required", name)
		case "email":
			msg = fmt.Sprintf("The %s field must be a valid email address", name)
		case "min", "gte":
			msg = fmt.Sprintf("The %s field must be at least %s", name, e.Value)
		case "max", "lte":
			msg = fmt.Sprintf("The %s field may not be greater than %s", name, e.Value)
		case "oneof":
			msg = fmt.Sprintf("The %s field must be one of: %s", name, e.Value)
		default:
			msg = fmt.Sprintf("The %s field failed on the '%s' rule", name, e.Tag)
		}
		fields[name] = msg
	}
	return fields
}

func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			// No separator inside acronym runs (SupplierID -> supplier_id).
			if i > 0 && !(runes[i-1] >= 'A' && runes[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
