// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/loans/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// nationalIDRegex matches a DNI: eight digits followed by one uppercase letter
	nationalIDRegex = regexp.MustCompile(`^[0-9]{8}[A-Z]$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NationalID validates the national identity document format (8 digits + 1 uppercase letter)
var NationalID = validation.NewStringRuleWithError(
	func(s string) bool {
		return nationalIDRegex.MatchString(s)
	},
	validation.NewError("validation_national_id_format", "must be 8 digits followed by an uppercase letter"),
)

// UUID validates that a string parses as a UUID
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		return uuid.Validate(s) == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// OneOfFold validates that a string matches one of the allowed values ignoring case.
// Empty strings are accepted so that Required decides whether the field is mandatory.
func OneOfFold(allowed ...string) validation.Rule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			for _, a := range allowed {
				if strings.EqualFold(s, a) {
					return true
				}
			}
			return false
		},
		validation.NewError(
			"validation_one_of",
			"must be one of: "+strings.Join(allowed, ", "),
		),
	)
}
