// Package validator validates API request payloads using struct tags.
package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// currencyRegex matches lowercase three-letter ISO 4217 style currency
// codes, the only form the payment gateway accepts for minor-unit
// amounts.
var currencyRegex = regexp.MustCompile(`^[a-z]{3}$`)

// Validator is a wrapper around the go-playground/validator package.
type Validator struct {
	validator *validator.Validate
}

// New creates a new Validator instance.
func New() *Validator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("currency", validateCurrency)

	return &Validator{
		validator: v,
	}
}

// Validate validates a struct using the validator package.
func (v *Validator) Validate(s interface{}) error {
	return v.validator.Struct(s)
}

// validateCurrency validates a currency code.
func validateCurrency(fl validator.FieldLevel) bool {
	// If the field is empty, it's valid (use required tag if it's required)
	if fl.Field().String() == "" {
		return true
	}

	return currencyRegex.MatchString(fl.Field().String())
}
