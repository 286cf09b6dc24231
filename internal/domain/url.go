package domain

import (
	"net/url"
	"strings"
)

// Field length limits enforced at the validation boundary.
const (
	MaxURLLength   = 2048
	MaxTitleLength = 255
	MaxMemoLength  = 1000
)

// IsValidURL reports whether s parses as an absolute HTTP or HTTPS URL.
// Empty or whitespace-only input is invalid. Never panics.
func IsValidURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// ExtractDomain returns the hostname of s iff IsValidURL(s), else "".
// Pure function, no network access.
func ExtractDomain(s string) string {
	if !IsValidURL(s) {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return u.Hostname()
}
