package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/dalemusser/wavesite/internal/app/system/auth"
)

// TestAdminUsername is the username used by admin request helpers.
const TestAdminUsername = "admin"

// WithAdmin adds a signed-in admin to the request context.
// This bypasses the session middleware and injects the admin directly.
func WithAdmin(r *http.Request) *http.Request {
	return auth.WithTestAdmin(r, &auth.Admin{
		Username:   TestAdminUsername,
		Token:      "test-session-token",
		SignedInAt: time.Now(),
	})
}

// WithCSRFToken puts a token where gorilla/csrf looks for one, so handlers
// calling csrf.Token outside the middleware render a value.
func WithCSRFToken(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), "gorilla.csrf.Token", "test-csrf-token"))
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is v encoded as JSON.
func NewJSONRequest(method, target string, v any) *http.Request {
	var body bytes.Buffer
	if v != nil {
		if err := json.NewEncoder(&body).Encode(v); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewAdminJSONRequest is NewJSONRequest with an admin in context.
func NewAdminJSONRequest(method, target string, v any) *http.Request {
	return WithAdmin(NewJSONRequest(method, target, v))
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !strings.Contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// Envelope is the decoded form of a JSON API response.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// DecodeEnvelope decodes the response body as an API envelope.
func (r *ResponseRecorder) DecodeEnvelope(t interface {
	Helper()
	Fatalf(string, ...any)
}) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(r.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, r.Body.String())
	}
	return env
}

// DecodeData decodes the envelope's data field into v.
func (r *ResponseRecorder) DecodeData(t interface {
	Helper()
	Fatalf(string, ...any)
}, v any) {
	t.Helper()
	env := r.DecodeEnvelope(t)
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (data: %s)", err, string(env.Data))
	}
}
