// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
// Using a struct allows for dependency injection and easier testing.
type Validator struct {
	v *validator.Validate
}

// FieldViolation describes one failed rule on one struct field.
type FieldViolation struct {
	// Field is the struct field name as reported by the validator,
	// or the json tag name when the struct carries one.
	Field string
	// Tag is the rule that failed, e.g. "required".
	Tag string
}

// New creates a new Validator instance.
// Domain-specific validation rules can be registered using RegisterValidation.
func New() *Validator {
	return &Validator{
		v: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// Violations validates s and flattens the result into one entry per failing field.
// The validator stops at the first failing rule of a field, so each field appears at most once.
func (val *Validator) Violations(s interface{}) ([]FieldViolation, error) {
	err := val.v.Struct(s)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	out := make([]FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldViolation{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out, nil
}
