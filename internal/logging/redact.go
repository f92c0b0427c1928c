package logging

import (
	"net/url"
	"regexp"
	"strings"
)

// Query parameter and field names that carry credentials. Signed media URLs
// commonly embed these.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"signature",
	"sig",
	"api_key",
	"apikey",
	"api-key",
	"authorization",
	"auth",
	"credential",
	"key-pair-id",
	"policy",
	"access_key",
	"accesskey",
}

// Patterns for secrets that should be redacted.
var secretPatterns = []*regexp.Regexp{
	// Bearer tokens
	regexp.MustCompile(`(?i)bearer\s+([a-zA-Z0-9._-]{20,})`),

	// Generic long hex/base64 strings that look like secrets
	regexp.MustCompile(`(?i)(key|token|secret|password|auth|signature)[=:]["']?([a-zA-Z0-9+/=_%-]{32,})["']?`),
}

// RedactedValue is the replacement for sensitive values.
const RedactedValue = "[REDACTED]"

// Redact replaces sensitive information in a string.
func Redact(s string) string {
	result := s
	for _, pattern := range secretPatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// RedactContentRef masks credential-bearing query parameters and userinfo in
// a story content reference. References that are not URLs go through
// Redact.
func RedactContentRef(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Redact(ref)
	}

	if parsed.User != nil {
		parsed.User = url.User(parsed.User.Username())
	}

	query := parsed.Query()
	changed := false
	for name := range query {
		if IsSensitiveField(name) {
			query.Set(name, RedactedValue)
			changed = true
		}
	}
	if changed {
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

// IsSensitiveField checks if a field name is considered sensitive.
func IsSensitiveField(name string) bool {
	lowerName := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lowerName, field) {
			return true
		}
	}
	return false
}
