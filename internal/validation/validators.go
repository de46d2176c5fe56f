package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// E164-like phone: optional +, digits 7-15 length. Spaces and dashes are
// stripped before matching so common formatting passes.
var (
	phoneRegex     = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	phoneSeparator = regexp.MustCompile(`[ ()-]`)
)

// New returns a validator instance with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	return v
}

// ValidPhone validates a phone number structure.
func ValidPhone(fl validator.FieldLevel) bool {
	val := phoneSeparator.ReplaceAllString(fl.Field().String(), "")
	if val == "" {
		return true // Optional, use required if needed
	}
	return phoneRegex.MatchString(val)
}
