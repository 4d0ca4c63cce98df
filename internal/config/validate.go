package config

import (
	"fmt"
	"go/token"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that knows the Go identifier tags used by
// the configuration and the schema front ends.
func NewValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("goident", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	})
	_ = v.RegisterValidation("identpart", func(fl validator.FieldLevel) bool {
		return IsIdentifierPart(fl.Field().String())
	})
	return v
}

// IsIdentifier reports whether s is a valid, non-keyword Go identifier.
func IsIdentifier(s string) bool {
	return token.IsIdentifier(s)
}

// IsIdentifierPart reports whether s can be appended to an identifier.
func IsIdentifierPart(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := NewValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
