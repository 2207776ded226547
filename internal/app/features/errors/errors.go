// internal/app/features/errors/errors.go
package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/wavesite/internal/app/store/content"
	"github.com/dalemusser/wavesite/internal/app/system/assist"
	"github.com/dalemusser/wavesite/internal/app/system/formutil"
	"github.com/dalemusser/wavesite/internal/app/system/jsonutil"
	"github.com/dalemusser/wavesite/internal/app/system/uploads"
	"go.uber.org/zap"
)

// Generic messages for server faults; the cause is only logged.
const (
	msgServerError = "Something went wrong. Please try again."
	msgNotFound    = "Not found"
)

// ErrorLogger wraps the zap logger for error logging.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the given message and error.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.logger.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}, fields...)
	e.logger.Error(msg, allFields...)
}

// Write converts err into the JSON error envelope. Validation, conflict and
// not-found errors carry their own message; persistence and generation
// failures are logged and answered with a generic one.
func (e *ErrorLogger) Write(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var (
		verr *content.ValidationError
		cerr *content.ConflictError
		nerr *content.NotFoundError
		gerr *assist.GenerationError
	)
	switch {
	case stderrors.As(err, &verr):
		jsonutil.Invalid(w, verr.Result.First(), verr.Fields())
	case stderrors.As(err, &cerr):
		jsonutil.Conflict(w, cerr.Error())
	case stderrors.As(err, &nerr):
		jsonutil.NotFound(w, nerr.Error())
	case stderrors.Is(err, uploads.ErrNotImage):
		msg := "Image must be a JPEG, PNG, GIF, WebP, SVG or AVIF file."
		jsonutil.Invalid(w, msg, map[string]string{"image": msg})
	case stderrors.Is(err, formutil.ErrTooLarge):
		jsonutil.Fail(w, http.StatusRequestEntityTooLarge, "Upload is too large.")
	case stderrors.As(err, &gerr):
		e.Log(r, msg, err)
		jsonutil.Fail(w, http.StatusBadGateway, gerr.Error())
	default:
		e.Log(r, msg, err)
		jsonutil.InternalError(w, msgServerError)
	}
}

// Handler provides JSON error responses for the router.
type Handler struct{}

// NewHandler creates a new error Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound answers unknown routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, msgNotFound)
}

// MethodNotAllowed answers a known route with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// Forbidden answers a CSRF or permission failure.
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	jsonutil.Fail(w, http.StatusForbidden, "Forbidden")
}
