// Package jsonutil provides helper functions for JSON API responses.
//
// Use these helpers in API handlers to ensure consistent JSON responses
// with proper Content-Type headers and error formatting. Errors are always
// shaped {"error": message}.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"go.uber.org/zap"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// OK writes a 200 OK JSON response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created JSON response.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// Success writes the {"success": true} acknowledgement used by deletes.
func Success(w http.ResponseWriter) {
	OK(w, map[string]bool{"success": true})
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 Unauthorized error response.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError writes the generic 500 body. Log the real error separately.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Internal server error")
}

// Fail maps a classified error to a response. Internal errors are logged
// with the request path and answered with the generic 500 body; everything
// else returns the error's client-safe message.
func Fail(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Kind == apperr.KindInternal {
		if logger != nil {
			logger.Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		InternalError(w)
		return
	}

	switch ae.Kind {
	case apperr.KindUnauthorized:
		Unauthorized(w)
	case apperr.KindValidation:
		BadRequest(w, ae.Message)
	case apperr.KindNotFound:
		NotFound(w, ae.Message)
	case apperr.KindConflict:
		Error(w, http.StatusConflict, ae.Message)
	}
}

// Decode reads and decodes a JSON request body into v. Oversized or
// malformed bodies come back as a validation error.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("body", "Request body is required")
		}
		return apperr.Validation("body", fmt.Sprintf("Invalid JSON: %v", err))
	}
	return nil
}
