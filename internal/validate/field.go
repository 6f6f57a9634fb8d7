// Package validate provides input validation utilities for xdrsync, ensuring
// configuration and credential data is well formed before any network call.
//
// This file implements common validation patterns used across config packages
// to ensure consistency and reduce duplication. All functions leverage the
// go-playground/validator library for standardized validation behavior.
//
// VALIDATION UTILITIES:
//   - Field validation: Arbitrary values against validator tag expressions
//   - String validation: Required field and non-empty string checking
//   - Timeout validation: Positive duration validation for request timeouts
//
// These utilities replace manual validation code scattered across config
// packages with centralized, consistent validation using the validator
// library's built-in tags and error handling.
package validate

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// Global validator instance using built-in validations
	validate *validator.Validate
)

func init() {
	validate = validator.New()
	// Using built-in validators: required, fqdn, min, max - no custom registration needed
}

// ValidateField validates a single value against a validator tag expression
// (e.g. "required,min=1,max=65535"). Provides the low-level primitive that the
// higher-level helpers in this package build on.
func ValidateField(value any, tag string) error {
	return validate.Var(value, tag)
}

// ValidateRequiredString validates that a string field is not empty.
// Uses the validator library for consistent error handling across config validation.
//
// Critical for ensuring required configuration fields like tenant names, API key
// IDs, and report directories are properly specified before an operation starts.
// Prevents runtime failures from missing essential configuration parameters.
func ValidateRequiredString(value, fieldName string) error {
	if err := ValidateField(value, "required"); err != nil {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveTimeout validates that a timeout duration is positive (> 0).
// Essential for ensuring timeout configurations don't cause infinite waits or
// immediate failures on upload requests.
func ValidatePositiveTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}
