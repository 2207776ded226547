package inputval

import (
	"math"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},

		// Invalid emails
		{"", false},
		{"   ", false},
		{"notanemail", false},
		{"@example.com", false},
		{"user@", false},
		{"user example.com", false},
		{"Name <user@example.com>", false}, // ParseAddress accepts this but we want bare email
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"http://example.com", true},
		{"https://example.com/path?query=value", true},
		{"http://localhost:8080", true},

		{"", false},
		{"   ", false},
		{"example.com", false},
		{"ftp://example.com", false},
		{"javascript:alert(1)", false},
		{"https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := IsValidHTTPURL(tt.url)
			if got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"hello-world", true},
		{"a1-b2-c3", true},
		{"post", true},

		{"", false},
		{"Hello-World", false},
		{"hello--world", false},
		{"-hello", false},
		{"hello-", false},
		{"hello world", false},
		{"hello_world", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			if got := IsValidSlug(tt.slug); got != tt.want {
				t.Errorf("IsValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		Name  string `validate:"required" label:"Name"`
		Email string `validate:"required,email" label:"Email"`
	}

	tests := []struct {
		name      string
		input     TestInput
		wantError bool
	}{
		{"valid input", TestInput{Name: "John", Email: "john@example.com"}, false},
		{"missing name", TestInput{Name: "", Email: "john@example.com"}, true},
		{"missing email", TestInput{Name: "John", Email: ""}, true},
		{"invalid email", TestInput{Name: "John", Email: "notanemail"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if tt.wantError && !result.HasErrors() {
				t.Errorf("Validate() expected errors, got none")
			}
			if !tt.wantError && result.HasErrors() {
				t.Errorf("Validate() expected no errors, got: %s", result.First())
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	type Input struct {
		Title string `json:"title" validate:"required,min=5" label:"Title"`
		Slug  string `json:"slug" validate:"required,min=5,slug" label:"Slug"`
		Email string `json:"email" validate:"required,email" label:"Email"`
	}

	result := Validate(Input{Title: "abc", Slug: "Bad Slug", Email: "x"})
	fields := result.Fields()
	for _, f := range []string{"title", "slug", "email"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("Fields() missing %q, got %v", f, fields)
		}
	}
	if len(result.Errors) != 3 {
		t.Errorf("len(Errors) = %d, want one per failing field (3)", len(result.Errors))
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type Links struct {
		Twitter string `json:"twitter" validate:"urlorempty" label:"Twitter URL"`
	}
	if res := Validate(Links{Twitter: ""}); res.HasErrors() {
		t.Errorf("urlorempty should accept empty, got: %s", res.First())
	}
	if res := Validate(Links{Twitter: "https://x.com/acme"}); res.HasErrors() {
		t.Errorf("urlorempty should accept URL, got: %s", res.First())
	}
	if res := Validate(Links{Twitter: "not a url"}); !res.HasErrors() {
		t.Error("urlorempty should reject non-URL text")
	}

	type Price struct {
		Amount float64 `json:"amount" validate:"positive" label:"Price"`
	}
	if res := Validate(Price{Amount: 10}); res.HasErrors() {
		t.Errorf("positive should accept 10, got: %s", res.First())
	}
	for _, v := range []float64{0, -5, math.Inf(1), math.NaN()} {
		if res := Validate(Price{Amount: v}); !res.HasErrors() {
			t.Errorf("positive should reject %v", v)
		}
	}

	type Country struct {
		Code     string `json:"code" validate:"required,countrycode" label:"Country code"`
		Currency string `json:"currency" validate:"required,currencycode" label:"Currency"`
	}
	if res := Validate(Country{Code: "IN", Currency: "INR"}); res.HasErrors() {
		t.Errorf("IN/INR should be valid, got: %s", res.First())
	}
	res := Validate(Country{Code: "IND", Currency: "RS"})
	if got := res.Fields()["code"]; got != "Country code must be a 2-letter country code." {
		t.Errorf("code message = %q", got)
	}
	if got := res.Fields()["currency"]; got != "Currency must be a 3-letter currency code." {
		t.Errorf("currency message = %q", got)
	}
}

func TestValidate_JSONTags(t *testing.T) {
	type Input struct {
		FullName string `json:"full_name" validate:"required" label:"Full name"`
	}

	result := Validate(Input{FullName: ""})
	if result.First() != "Full name is required." {
		t.Errorf("Validate() error message = %q, want label-based message", result.First())
	}
}

func TestValidate_NoLabel(t *testing.T) {
	type Input struct {
		Name string `validate:"required"` // No label tag
	}

	result := Validate(Input{Name: ""})
	if result.First() != "Name is required." {
		t.Errorf("Validate() error message = %q, want field name message", result.First())
	}
}

func TestResult_AddKeepsFirstMessage(t *testing.T) {
	r := &Result{}
	r.Add("name", "Name", "Name is required.")
	r.Add("name", "Name", "Name must be at least 2 characters.")
	if len(r.Errors) != 1 || r.First() != "Name is required." {
		t.Errorf("Add() should keep the first message per field, got %+v", r.Errors)
	}
}

func TestResult_All(t *testing.T) {
	r := &Result{}
	if got := r.All(); got != "" {
		t.Errorf("All() on empty result = %q, want empty string", got)
	}

	r = &Result{
		Errors: []FieldError{
			{Field: "name", Label: "Name", Message: "Name is required."},
			{Field: "email", Label: "Email", Message: "Email is required."},
		},
	}
	want := "Name is required.; Email is required."
	if got := r.All(); got != want {
		t.Errorf("All() = %q, want %q", got, want)
	}
}

func TestResult_NilSafe(t *testing.T) {
	var r *Result
	if r.HasErrors() {
		t.Error("HasErrors() on nil result should be false")
	}
	if r.First() != "" {
		t.Error("First() on nil result should be empty")
	}
}
