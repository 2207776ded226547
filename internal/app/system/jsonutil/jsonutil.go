// Package jsonutil writes the JSON envelope used by every API endpoint.
//
// Successful mutations answer {"success":true,"message":...} with an
// optional "data" member; failures answer {"success":false,"message":...}
// with an optional "errors" map of per-field messages. Reads return their
// payload under "data".
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes bounds request bodies read by Decode.
const MaxBodyBytes = 1 << 20

// Result is the response envelope.
type Result struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// OK writes a 200 response carrying data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Result{Success: true, Data: data})
}

// Done writes a success message with optional data.
func Done(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Result{Success: true, Message: message, Data: data})
}

// Fail writes a failure message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Result{Success: false, Message: message})
}

// Invalid writes a 400 with per-field messages.
func Invalid(w http.ResponseWriter, message string, fields map[string]string) {
	JSON(w, http.StatusBadRequest, Result{Success: false, Message: message, Errors: fields})
}

func BadRequest(w http.ResponseWriter, message string) {
	Fail(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Fail(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Fail(w, http.StatusNotFound, message)
}

func Conflict(w http.ResponseWriter, message string) {
	Fail(w, http.StatusConflict, message)
}

// InternalError writes a 500. Log the cause separately; message is shown
// to the caller as is.
func InternalError(w http.ResponseWriter, message string) {
	Fail(w, http.StatusInternalServerError, message)
}

// Decode reads one JSON value from the request body into v. Unknown fields
// and trailing data are rejected.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is empty")
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body must be at most %d bytes", maxErr.Limit)
		default:
			return fmt.Errorf("request body is not valid JSON: %w", err)
		}
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
