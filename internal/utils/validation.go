package utils

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct validates a struct using validation tags
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate checks that a string is a YYYY-MM-DD date. Dates are stored as
// strings, so anything else would silently fall out of month filters.
func IsValidDate(date string) bool {
	return dateRe.MatchString(date)
}
