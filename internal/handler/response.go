// Package handler contains the HTTP layer: form and JSON endpoints that
// translate between requests and the service layer. Authorization has
// already happened by the time a handler runs; handlers read the resolved
// identity and session from the request context.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nwhite/newswire/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing left to do but note it.
		slog.Error("encoding response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to a status code and JSON body. Unexpected
// errors are logged and reported as a generic 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, statusFor(appErr.Err), errorResponse{
			Error: appErr.Message,
			Field: appErr.Field,
		})
		return
	}

	logger.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func statusFor(sentinel error) int {
	switch {
	case errors.Is(sentinel, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(sentinel, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(sentinel, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(sentinel, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(sentinel, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// userMessage extracts the localized message from a domain error, or a
// generic fallback for unexpected ones.
func userMessage(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "something went wrong"
}
