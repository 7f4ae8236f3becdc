// Package validation builds the request validator shared by services.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9(][0-9\s\-().]{5,19}$`)

// PhoneValidator accepts international numbers with common separators (e.g. +880 1711-000000).
var PhoneValidator = func(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// New returns a validator that reports JSON field names and knows the phone rule.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", PhoneValidator)
	return v
}
