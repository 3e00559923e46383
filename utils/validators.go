// File: /utils/validators.go
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	MaxIDLength       = 191
	MaxUsernameLength = 50
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)
)

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func IsValidUsername(username string) bool {
	return len(username) >= 3 && len(username) <= MaxUsernameLength && usernameRegex.MatchString(username)
}

// IsValidID accepts opaque identifiers: non-empty, bounded, no whitespace or
// control characters.
func IsValidID(id string) bool {
	if id == "" || len(id) > MaxIDLength {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) == -1
}
