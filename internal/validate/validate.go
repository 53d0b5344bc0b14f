// Package validate checks and normalizes shortening inputs before any
// quota, safety, or storage work happens.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MaxURLLength is the longest original URL accepted for shortening.
const MaxURLLength = 2000

// codePattern is the allowed custom short code syntax.
var codePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,20}$`)

// allowedSchemes are the only URL schemes accepted for shortening.
// Everything else (javascript:, data:, file:, ...) is rejected.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// Error describes a rejected input field.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// URL validates a candidate original URL and returns it trimmed.
// The URL must be absolute, use http or https, have a host, stay within
// MaxURLLength, and contain no control characters.
func URL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &Error{Field: "url", Reason: "url is required"}
	}

	if len(raw) > MaxURLLength {
		return "", &Error{Field: "url", Reason: fmt.Sprintf("url exceeds maximum length of %d characters", MaxURLLength)}
	}

	if strings.ContainsFunc(raw, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return "", &Error{Field: "url", Reason: "url contains control characters"}
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", &Error{Field: "url", Reason: "url could not be parsed"}
	}

	if !allowedSchemes[strings.ToLower(parsed.Scheme)] {
		return "", &Error{Field: "url", Reason: "url must use http or https"}
	}

	if parsed.Host == "" {
		return "", &Error{Field: "url", Reason: "url must have a host"}
	}

	return raw, nil
}

// CustomCode validates a requester-supplied short code and normalizes
// it to lowercase. An empty input is valid and means "generate one".
func CustomCode(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	if !codePattern.MatchString(raw) {
		return "", &Error{
			Field:  "shortCode",
			Reason: "short code must be 1-20 characters and can only contain letters, numbers, underscores, and hyphens",
		}
	}

	return strings.ToLower(raw), nil
}

// Host extracts the lowercase hostname of a URL already accepted by URL.
func Host(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	return strings.ToLower(parsed.Hostname())
}
