// Package normalize holds the string clean-up rules shared by stores and
// handlers, so that the same input always compares equal.
package normalize

import (
	"path"
	"strings"
)

// Email trims and lower-cases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Username lower-cases an admin login name.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Code upper-cases a country or currency code.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Route cleans a page path: one leading slash, no trailing slash, no dot
// segments. The wildcard route "*" is returned unchanged.
func Route(s string) string {
	s = strings.TrimSpace(s)
	if s == "*" {
		return s
	}
	if s == "" {
		return "/"
	}
	return path.Clean("/" + s)
}
