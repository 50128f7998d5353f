package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/guardforce-admin/internal/dto"
)

// ValidationError carries per-field messages keyed by json field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// fieldMessages renders validator failures as "<Label> is required" style messages.
func fieldMessages(err error, label func(string) string) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(fe, label)
	}
	return out
}

func message(fe validator.FieldError, label func(string) string) string {
	name := label(fe.Field())
	param := fe.Param()
	textual := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "min":
		if textual {
			return fmt.Sprintf("%s must be at least %s characters", name, param)
		}
		return fmt.Sprintf("%s must be at least %s", name, param)
	case "max":
		if textual {
			return fmt.Sprintf("%s must be at most %s characters", name, param)
		}
		return fmt.Sprintf("%s must be at most %s", name, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, param)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, param)
	case "lte":
		return fmt.Sprintf("%s must be at most %s", name, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, strings.Join(strings.Fields(param), ", "))
	case "datetime":
		switch param {
		case "2006-01-02":
			return name + " must be a valid date (YYYY-MM-DD)"
		case "15:04":
			return name + " must be a valid time (HH:MM)"
		}
		return name + " must be a valid date and time"
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", name, fe.Tag())
	case dto.TagTimeAfter:
		return fmt.Sprintf("%s must be after %s", name, label(param))
	case dto.TagDateAfter:
		return fmt.Sprintf("%s must not be before %s", name, label(param))
	case dto.TagDiffers:
		return fmt.Sprintf("%s must differ from %s", name, label(param))
	}
	return name + " is invalid"
}
