// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	domainerrors "userhub/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps a shared validator.Validate instance.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds the validator used by the echo server.
func New() *CustomValidator {
	return &CustomValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks the bound request DTO against its `validate` tags and maps
// failures onto the 400 validation error.
func (v *CustomValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
