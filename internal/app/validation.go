package app

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"campfind/internal/domain"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validationErr converts validator output into a domain validation error.
func validationErr(msg string, err error) error {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return domain.Validation(msg)
	}
	fields := make([]domain.FieldError, 0, len(ves))
	for _, fe := range ves {
		m := "is required"
		switch fe.Tag() {
		case "required":
		case "oneof":
			m = "must be one of: " + fe.Param()
		case "gt":
			m = "must be greater than " + fe.Param()
		default:
			m = "failed " + fe.Tag()
		}
		fields = append(fields, domain.FieldError{Field: fe.Field(), Message: m})
	}
	return domain.Validation(msg, fields...)
}
