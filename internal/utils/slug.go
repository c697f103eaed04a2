package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugDashes       = regexp.MustCompile(`-+`)
	usernameInvalid  = regexp.MustCompile(`[^a-z0-9_]`)
)

// GenerateSlug lowercases name, drops anything outside [a-z0-9 -], turns whitespace into dashes
// and collapses and trims dashes.
func GenerateSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SanitizeUsernameBase reduces a display name to a lowercase username stem.
// It falls back to "user" when nothing usable remains.
func SanitizeUsernameBase(name string) string {
	s := usernameInvalid.ReplaceAllString(strings.ToLower(name), "")
	if len(s) > 40 {
		s = s[:40]
	}
	if len(s) < 3 {
		return "user"
	}
	return s
}
