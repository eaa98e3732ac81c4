// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/jsonutil"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorLogger wraps the zap logger for error logging.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{logger: logger}
}

// Logger returns the underlying zap logger.
func (e *ErrorLogger) Logger() *zap.Logger {
	return e.logger
}

// Log logs an error with the given message and error.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.logger.Error(msg, requestFields(r, err)...)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	e.logger.Error(msg, append(requestFields(r, err), fields...)...)
}

// Fail logs internal failures and writes the JSON error response for err.
func (e *ErrorLogger) Fail(w http.ResponseWriter, r *http.Request, err error) {
	jsonutil.Fail(w, r, e.logger.With(zap.String("request_id", middleware.GetReqID(r.Context()))), err)
}

func requestFields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	return fields
}

// Handler answers router-level misses with JSON bodies.
type Handler struct{}

// NewHandler creates a new error Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound writes 404 {"error":"Not found"}.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	jsonutil.NotFound(w, "Not found")
}

// MethodNotAllowed writes 405 {"error":"Method not allowed"}.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	jsonutil.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
}
