// internal/app/store/content/errors.go
package content

import (
	"errors"
	"fmt"

	"github.com/dalemusser/wavesite/internal/app/system/inputval"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// ValidationError carries every failing field of a rejected input.
type ValidationError struct {
	Result *inputval.Result
}

// NewValidationError wraps a failed validation result.
func NewValidationError(res *inputval.Result) *ValidationError {
	return &ValidationError{Result: res}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Result.All()
}

// Fields returns the per-field messages.
func (e *ValidationError) Fields() map[string]string {
	return e.Result.Fields()
}

// ConflictError reports a natural-key collision.
type ConflictError struct {
	Collection string
	Field      string
	Value      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Collection, e.Field, e.Value)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFoundError reports a mutation or lookup against a missing id or key.
type NotFoundError struct {
	Collection string
	Key        string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Collection, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a failed load or save of a collection snapshot.
type PersistenceError struct {
	Op         string // "load" or "save"
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsUserError reports whether err is something the submitter can fix
// (validation, conflict, not found) as opposed to a server fault.
func IsUserError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound)
}

// Check validates a tagged rules struct and wraps any failures.
func Check(rules any) error {
	if res := inputval.Validate(rules); res.HasErrors() {
		return NewValidationError(res)
	}
	return nil
}
