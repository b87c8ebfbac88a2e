package service

import (
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var shortPathRegexp = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// newValidate returns a validator with the "shortpath" and "absurl" rules registered.
//
// shortpath accepts non-empty strings over [A-Za-z0-9_-].
// absurl accepts URLs with both a scheme and an authority, e.g. https://example.com.
func newValidate() *validator.Validate {
	validate := validator.New()

	// Registration only fails for empty tags or nil funcs.
	_ = validate.RegisterValidation("shortpath", func(fl validator.FieldLevel) bool {
		return shortPathRegexp.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("absurl", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		return err == nil && u.Scheme != "" && u.Host != ""
	})

	return validate
}
