package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campusops/facility-desk/internal/domain"
	apperrors "github.com/campusops/facility-desk/pkg/util/errorutil"
)

// newValidator registers the enumeration rules used by service inputs.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	rules := map[string]validator.Func{
		"category": func(fl validator.FieldLevel) bool { return domain.Category(fl.Field().String()).Valid() },
		"location": func(fl validator.FieldLevel) bool { return domain.Location(fl.Field().String()).Valid() },
		"urgency":  func(fl validator.FieldLevel) bool { return domain.Urgency(fl.Field().String()).Valid() },
		"role":     func(fl validator.FieldLevel) bool { return domain.Role(fl.Field().String()).Valid() },
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic("register validation " + tag + ": " + err.Error())
		}
	}
	return v
}

// validateStruct converts validator failures into a validation DomainError whose
// details map each failing field to the violated rule.
func validateStruct(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewInternalError(err)
	}
	details := make(map[string]any, len(fieldErrs))
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return apperrors.NewValidationError("invalid fields: "+strings.Join(fields, ", "), details)
}
