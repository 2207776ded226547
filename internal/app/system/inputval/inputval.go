// Package inputval provides form input validation using waffle/pantry/validate.
//
// Content inputs are plain structs with validate and label tags. Populate
// one from form values, call Validate, and turn a non-empty Result into a
// validation error for the caller:
//
//	type PostInput struct {
//	    Title string `json:"title" validate:"required,min=5" label:"Title"`
//	    Slug  string `json:"slug" validate:"required,min=5,slug" label:"Slug"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    return content.NewValidationError(res)
//	}
package inputval

import (
	"math"
	"net/mail"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/validate"
)

// Result holds validation results with user-friendly messages.
type Result struct {
	Errors []FieldError
}

// FieldError represents a validation error for a single field.
type FieldError struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Message string `json:"message"`
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// First returns the first error message, or empty string if no errors.
func (r *Result) First() string {
	if r.HasErrors() {
		return r.Errors[0].Message
	}
	return ""
}

// All returns all error messages joined with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the messages keyed by field name.
func (r *Result) Fields() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		out[e.Field] = e.Message
	}
	return out
}

// Add records a message for field unless the field already has one.
func (r *Result) Add(field, label, message string) {
	for _, e := range r.Errors {
		if e.Field == field {
			return
		}
	}
	r.Errors = append(r.Errors, FieldError{Field: field, Label: label, Message: message})
}

// Merge appends other's errors with their field names prefixed, so nested
// items report as e.g. "items[2].question".
func (r *Result) Merge(prefix string, other *Result) {
	if !other.HasErrors() {
		return
	}
	for _, e := range other.Errors {
		r.Add(prefix+e.Field, e.Label, e.Message)
	}
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// customValidator is a singleton validator with custom rules registered.
var (
	customValidator *validate.Validator
	validatorOnce   sync.Once
)

// getValidator returns the singleton validator with custom rules.
// It reports every failing field; Validate keeps the first message per field.
func getValidator() *validate.Validator {
	validatorOnce.Do(func() {
		customValidator = validate.New()

		// slug: lower-case words joined by single hyphens
		customValidator.RegisterRuleFunc("slug", func(value any) bool {
			s, ok := value.(string)
			return ok && IsValidSlug(s)
		}, "slug")

		// httpurl: validates that string is a valid http/https URL
		customValidator.RegisterRuleFunc("httpurl", func(value any) bool {
			s, ok := value.(string)
			return ok && IsValidHTTPURL(s)
		}, "httpurl")

		// urlorempty: empty means "no link"; anything else must be a URL
		customValidator.RegisterRuleFunc("urlorempty", func(value any) bool {
			s, ok := value.(string)
			return ok && (strings.TrimSpace(s) == "" || IsValidHTTPURL(s))
		}, "urlorempty")

		customValidator.RegisterRuleFunc("positive", func(value any) bool {
			switch n := value.(type) {
			case float64:
				return n > 0 && !math.IsInf(n, 1)
			case float32:
				return n > 0 && !math.IsInf(float64(n), 1)
			case int:
				return n > 0
			case int64:
				return n > 0
			}
			return false
		}, "positive")

		customValidator.RegisterRuleFunc("countrycode", func(value any) bool {
			s, ok := value.(string)
			return ok && isLetters(s, 2)
		}, "countrycode")

		customValidator.RegisterRuleFunc("currencycode", func(value any) bool {
			s, ok := value.(string)
			return ok && isLetters(s, 3)
		}, "currencycode")
	})
	return customValidator
}

// Validate validates a struct and returns a Result with user-friendly errors.
// The struct should have `validate` tags for rules and optional `label` tags
// for user-friendly field names. Each failing field is reported once, with
// the message for the first rule it failed.
//
// Supported validation rules (from pantry/validate):
//   - required: field must not be empty
//   - email: field must be a valid email address
//   - oneof=a b c: field must be one of the specified values
//   - min=N: string length or numeric value must be >= N
//   - max=N: string length or numeric value must be <= N
//
// Custom validation rules (registered by this package):
//   - slug: lower-case letters and digits in hyphen-separated words
//   - httpurl: field must be a valid http:// or https:// URL
//   - urlorempty: field must be empty or a valid http(s) URL
//   - positive: finite number greater than zero
//   - countrycode: exactly two letters
//   - currencycode: exactly three letters
func Validate(s any) *Result {
	result := &Result{}

	v := getValidator()
	err := v.Struct(s)
	if err == nil {
		return result
	}

	// Get field labels from struct tags
	labels := getFieldLabels(s)

	if errs, ok := err.(validate.Errors); ok {
		for _, e := range errs {
			label := labels[e.Field]
			if label == "" {
				label = e.Field
			}
			result.Add(e.Field, label, formatMessage(label, e.Rule, e.Param))
		}
	}

	return result
}

// getFieldLabels extracts the "label" tag from struct fields.
func getFieldLabels(s any) map[string]string {
	labels := make(map[string]string)

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return labels
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		// Get the field name (use json tag if available)
		fieldName := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" && parts[0] != "-" {
				fieldName = parts[0]
			}
		}

		if label := field.Tag.Get("label"); label != "" {
			labels[fieldName] = label
		}
	}

	return labels
}

// formatMessage creates a user-friendly message for a validation rule.
func formatMessage(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	case "slug":
		return label + " can only contain lowercase letters, numbers, and hyphens."
	case "httpurl", "urlorempty":
		return label + " must be a valid URL starting with http:// or https://."
	case "positive":
		return label + " must be a positive number."
	case "countrycode":
		return label + " must be a 2-letter country code."
	case "currencycode":
		return label + " must be a 3-letter currency code."
	default:
		return label + " is invalid."
	}
}

// IsValidEmail checks if the given string has a valid email format.
//
// This function uses Go's net/mail.ParseAddress for RFC 5322 compliant validation.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	// ParseAddress accepts "Name <email>" format, so verify the address
	// matches what we passed in (just the email part).
	return addr.Address == email
}

// IsValidHTTPURL checks if the given string is a valid http:// or https:// URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidSlug reports whether s is a URL slug such as "hello-world".
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

func isLetters(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
