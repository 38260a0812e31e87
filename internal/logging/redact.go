// Package logging provides redaction-aware structured logging on top of
// log/slog, plus safe error message mapping for client responses.
package logging

import (
	"regexp"
	"strings"
)

// Sentinels emitted in place of redacted or over-deep values.
const (
	RedactedSentinel = "[REDACTED]"
	MaxDepthSentinel = "[MAX_DEPTH]"
)

// maxDepth bounds the recursive walk so cyclic or pathological values
// cannot hang a log call.
const maxDepth = 10

// sensitiveKeys are mapping keys whose values are always redacted,
// matched case-insensitively.
var sensitiveKeys = map[string]bool{
	"password":      true,
	"secret":        true,
	"token":         true,
	"apikey":        true,
	"api_key":       true,
	"authorization": true,
	"cookie":        true,
	"session":       true,
	"creditcard":    true,
	"ssn":           true,
}

// sensitivePattern matches string values that look like they carry
// credentials anywhere in their content.
var sensitivePattern = regexp.MustCompile(`(?i)(password|secret|token|api[_-]?key|authorization|cookie|session)`)

// Redact walks a value and replaces anything sensitive with
// RedactedSentinel. Mappings are redacted by key, strings by content.
func Redact(v any) any {
	return redact(v, 0)
}

func redact(v any, depth int) any {
	if depth > maxDepth {
		return MaxDepthSentinel
	}

	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if sensitivePattern.MatchString(val) {
			return RedactedSentinel
		}
		return val
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = redact(item, depth+1)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, value := range val {
			if sensitiveKeys[strings.ToLower(key)] {
				out[key] = RedactedSentinel
			} else {
				out[key] = redact(value, depth+1)
			}
		}
		return out
	default:
		return v
	}
}

// IsSensitiveKey reports whether a mapping key must always be redacted.
func IsSensitiveKey(key string) bool {
	return sensitiveKeys[strings.ToLower(key)]
}

// IsSensitiveValue reports whether a string value matches the sensitive
// content pattern.
func IsSensitiveValue(s string) bool {
	return sensitivePattern.MatchString(s)
}
