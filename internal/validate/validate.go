// Package validate implements declarative, rule-based form validation and
// input sanitization for handler-level checks.
//
// Rules use a pipe-delimited grammar per field, e.g. "required|min:3" or
// "required|email". Rules are evaluated in declared order as a predicate
// list; the first failing rule reports its message and stops evaluation for
// that field, while errors across different fields accumulate independently.
package validate

import (
	"fmt"
	"html"
	"net/mail"
	"strconv"
	"strings"
)

// Fields checks values against the given per-field rule strings and returns
// a map of field name to error message. An empty map means everything
// validated.
func Fields(values map[string]string, rules map[string]string) map[string]string {
	errs := make(map[string]string)

	for field, rule := range rules {
		value := values[field]
		for _, token := range strings.Split(rule, "|") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			if msg := apply(token, field, value); msg != "" {
				errs[field] = msg
				break
			}
		}
	}

	return errs
}

// apply evaluates a single rule token against a value and returns an error
// message, or "" when the rule passes.
func apply(token, field, value string) string {
	switch {
	case token == "required":
		if strings.TrimSpace(value) == "" {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case token == "email":
		if !validEmail(value) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case strings.HasPrefix(token, "min:"):
		n, err := strconv.Atoi(token[len("min:"):])
		if err != nil {
			return ""
		}
		if len(value) < n {
			return fmt.Sprintf("The %s must be at least %d characters.", field, n)
		}
	case token == "numeric":
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			return fmt.Sprintf("The %s must be numeric.", field)
		}
	}
	return ""
}

func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// Reject display-name forms like "Jane <jane@x.com>"; only bare
	// addresses count as valid form input.
	return addr.Address == s
}

// Sanitize trims whitespace, drops control characters, strips markup tags,
// and HTML-escapes the result. Applied to all free-text input before
// validation and storage.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	s = stripTags(s)
	return html.EscapeString(s)
}

// SanitizeMap applies Sanitize to every value in the map, returning a new map.
func SanitizeMap(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = Sanitize(v)
	}
	return out
}

// stripTags removes anything between '<' and the matching '>'. Unterminated
// tags are dropped to the end of the string.
func stripTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case inTag:
			if r == '>' {
				inTag = false
			}
		case r == '<':
			inTag = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
