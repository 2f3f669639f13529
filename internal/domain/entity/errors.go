package entity

import (
	"errors"
	"fmt"
)

// Machine-readable error codes carried in the error envelope.
const (
	CodeMissingParameter = "MISSING_PARAMETER"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeOutOfRange       = "OUT_OF_RANGE"
	CodeYearNotFound     = "YEAR_NOT_FOUND"
	CodeRateLimited      = "RATE_LIMITED"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
)

// ErrYearNotFound is returned when a syntactically valid, in-range year has
// no record. With a complete dataset this only happens if the data file was
// trimmed.
var ErrYearNotFound = errors.New("no data available for year")

// ValidationError is a client-facing input error. Message is safe to return
// verbatim to the caller.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}
