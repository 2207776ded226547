package inputval

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// SplitList parses a comma-separated form field into its items.
// Items are trimmed and empty items dropped, so "a, b ,,c" yields
// [a b c] and "" yields an empty (non-nil) list.
func SplitList(s string) []string {
	items := lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	})
	return lo.Compact(items)
}

// JoinList is the inverse of SplitList for display in a form field.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// ParseJSONList decodes a form field holding a JSON array of objects.
// Blank input is an empty list. Anything that is not a JSON array of the
// expected shape is reported against field so the whole submission fails.
func ParseJSONList[T any](raw, field, label string, res *Result) []T {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []T{}
	}

	var items []T
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&items); err != nil {
		res.Add(field, label, fmt.Sprintf("%s must be a valid JSON list: %s", label, jsonProblem(err)))
		return nil
	}
	if dec.More() {
		res.Add(field, label, label+" must contain a single JSON list.")
		return nil
	}
	if items == nil {
		items = []T{}
	}

	// Schema-check each element.
	for i, item := range items {
		res.Merge(fmt.Sprintf("%s[%d].", field, i), Validate(item))
	}
	return items
}

// jsonProblem gives a short, user-facing description of a decode error.
func jsonProblem(err error) string {
	switch e := err.(type) {
	case *json.SyntaxError:
		return fmt.Sprintf("syntax error at offset %d", e.Offset)
	case *json.UnmarshalTypeError:
		if e.Field != "" {
			return fmt.Sprintf("%s has the wrong type", e.Field)
		}
		return "expected a list of objects"
	default:
		return err.Error()
	}
}
