// Package respond writes JSON responses and maps domain errors onto the
// error envelope. Internal errors are logged with detail and returned to the
// client as a generic message, never verbatim.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"wimbledon-api/internal/domain/entity"
)

// ErrorBody is the error envelope returned on every non-2xx response.
type ErrorBody struct {
	Error      string `json:"error"`
	ErrorCode  string `json:"error_code"`
	RetryAfter int64  `json:"retry_after,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent, all we can do is log.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes the error envelope with the given status, message and code.
func Error(w http.ResponseWriter, code int, message, errorCode string) {
	JSON(w, code, ErrorBody{Error: message, ErrorCode: errorCode})
}

// RateLimited writes the 429 envelope with a machine-readable retry delay.
// The Retry-After header is set by the rate limit middleware.
func RateLimited(w http.ResponseWriter, message string, retryAfterSeconds int64) {
	JSON(w, http.StatusTooManyRequests, ErrorBody{
		Error:      message,
		ErrorCode:  entity.CodeRateLimited,
		RetryAfter: retryAfterSeconds,
	})
}

// DomainError maps a lookup pipeline error to the right status and
// envelope. Validation errors carry their own code and are safe to return
// verbatim; anything unrecognized is treated as internal.
func DomainError(w http.ResponseWriter, err error) {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		Error(w, http.StatusBadRequest, verr.Message, verr.Code)
	case errors.Is(err, entity.ErrYearNotFound):
		Error(w, http.StatusNotFound, "no data available for the requested year", entity.CodeYearNotFound)
	default:
		slog.Default().Error("internal server error",
			slog.Any("error", err))
		Error(w, http.StatusInternalServerError, "internal server error", entity.CodeInternalError)
	}
}
