package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/rl1809/cold-storage/internal/core/domain"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// validateStruct runs the tag rules and reports the first failure as a
// *domain.ValidationError.
func validateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &domain.ValidationError{Reason: err.Error()}
	}

	fe := fieldErrs[0]
	return &domain.ValidationError{Field: lowerFirst(fe.Field()), Reason: reasonFor(fe.Tag())}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func reasonFor(tag string) string {
	switch tag {
	case "required", "notblank":
		return "is required"
	case "gte":
		return "must not be negative"
	case "min":
		return "is too short"
	case "lte":
		return "is too large"
	case "max":
		return "is too long"
	default:
		return "is invalid"
	}
}
