package handlers

import (
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLength = 8
	// bcrypt only accepts inputs up to 72 bytes.
	maxPasswordBytes = 72
)

var registerValidatorsOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator engine.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("strongpassword", strongPassword)
		}
	})
}

// strongPassword requires at least 8 characters and at most 72 bytes, with a
// lowercase letter, an uppercase letter, a digit and a symbol.
func strongPassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword reports whether password satisfies the strongpassword rule.
func IsStrongPassword(password string) bool {
	if len([]rune(password)) < minPasswordLength || len(password) > maxPasswordBytes {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
