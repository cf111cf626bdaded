package dto

import (
	"fmt"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validate reads the same `binding` tags gin uses, so requests arriving
// through the library API are checked exactly like HTTP ones.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

// ValidateStruct checks the binding tags of input and wraps failures in apperrors.ErrValidation.
func ValidateStruct(input any) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return nil
}

func requirePositive(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero, got %s", apperrors.ErrValidation, field, amount.String())
	}
	return nil
}

func requireNonNegative(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrValidation, field, amount.String())
	}
	return nil
}
