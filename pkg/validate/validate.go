// Package validate registers the custom binding rules used by request DTOs.
package validate

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// vnPhonePattern accepts Vietnamese mobile numbers with or without the leading 0.
var vnPhonePattern = regexp.MustCompile(`^(0?)(3[2-9]|5[6|8|9]|7[0|6-9]|8[0-6|8|9]|9[0-4|6-9])[0-9]{7}$`)

// IsVNPhone reports whether s is a valid Vietnamese mobile number.
func IsVNPhone(s string) bool {
	return vnPhonePattern.MatchString(s)
}

// IsDate reports whether s is a YYYY-MM-DD date or an RFC 3339 timestamp.
func IsDate(s string) bool {
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// Register adds "vnphone" and "date" to v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return IsVNPhone(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	})
}

// RegisterGin installs the rules on gin's default validator.
func RegisterGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return Register(v)
}
