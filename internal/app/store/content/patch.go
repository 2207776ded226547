// internal/app/store/content/patch.go
package content

import "strings"

// Assign copies *src into *dst when src is set. It is the building block of
// the partial updates used by every store: a nil field means "unchanged".
func Assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// AssignTrimmed is Assign for strings, trimming surrounding space.
func AssignTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// Ptr returns a pointer to v; handy when building partial updates.
func Ptr[T any](v T) *T { return &v }
