package validation

import (
	"errors"
	"net/mail"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email address format")

// ValidateEmail validates email format and length.
func ValidateEmail(email string) error {
	// RFC 5321: 254 characters total
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	if email == "" {
		return errors.New("email address is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}

	return nil
}

// NormalizeEmail lowercases and trims an address before lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
