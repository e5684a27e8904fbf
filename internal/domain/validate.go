package domain

import (
	"net/mail"
	"regexp"
)

const MinPasswordLength = 8

var (
	slugRegex  = regexp.MustCompile(`^[a-z0-9-]+$`)
	colorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// ValidSlug reports whether s is a lowercase/digit/hyphen slug.
func ValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// ValidColor reports whether s is a #-prefixed 6-hex-digit color code.
func ValidColor(s string) bool {
	return colorRegex.MatchString(s)
}

// ValidEmail reports whether s parses as a bare RFC 5322 address.
func ValidEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// ValidPassword reports whether s meets the minimum length requirement.
func ValidPassword(s string) bool {
	return len(s) >= MinPasswordLength
}
