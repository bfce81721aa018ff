package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var (
	keySegments = regexp.MustCompile(`[^a-z0-9]+`)
	bearerValue = regexp.MustCompile(`(?i)\bbearer\s+\S+`)
)

// redactor hides secrets in log key-value pairs.
type redactor struct {
	sensitive map[string]bool
}

func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "authorization", "credential"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{sensitive: m}
}

// redact returns a copy of pairs where values of sensitive keys are replaced
// and bearer credentials inside string values are masked.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	out := make([]any, len(pairs))
	copy(out, pairs)
	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		if r.isSensitive(key) {
			out[i+1] = redacted
			continue
		}
		if s, ok := out[i+1].(string); ok {
			out[i+1] = r.redactString(s)
		}
	}
	return out
}

// isSensitive reports whether any segment of key is a sensitive word.
// "api_token" and "X-Auth" match; "monkey" does not.
func (r *redactor) isSensitive(key string) bool {
	for _, part := range keySegments.Split(strings.ToLower(key), -1) {
		if r.sensitive[part] {
			return true
		}
	}
	return false
}

func (r *redactor) redactString(value string) string {
	return bearerValue.ReplaceAllString(value, "Bearer "+redacted)
}
