// Package sanitize provides text sanitization utilities to prevent XSS attacks.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute; only text survives.
var strict = bluemonday.StrictPolicy()

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
// bluemonday escapes the surviving text, so entities are decoded back to plain characters.
func StripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// closedTag matches text that closes like an element, e.g. <b> or </p>.
var closedTag = regexp.MustCompile(`<[A-Za-z/!][^<>]*>`)

// Text prepares user-provided free text such as lead feedback for display.
// Markup is stripped only when the text holds a closed tag, so plain
// comparisons like "x<y" are shown as typed.
func Text(s string) string {
	if !closedTag.MatchString(s) {
		return strings.TrimSpace(s)
	}
	return StripHTML(s)
}
