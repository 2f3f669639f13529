package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"wimbledon-api/internal/domain/entity"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, map[string]int{"year": 2021})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{
			name:     "validation error",
			err:      entity.NewValidationError(entity.CodeOutOfRange, "year must be between 2014 and 2024, got 1999"),
			wantCode: http.StatusBadRequest,
			wantErr:  entity.CodeOutOfRange,
		},
		{
			name:     "year not found",
			err:      entity.ErrYearNotFound,
			wantCode: http.StatusNotFound,
			wantErr:  entity.CodeYearNotFound,
		},
		{
			name:     "wrapped year not found",
			err:      errors.Join(errors.New("lookup"), entity.ErrYearNotFound),
			wantCode: http.StatusNotFound,
			wantErr:  entity.CodeYearNotFound,
		},
		{
			name:     "unknown error",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantErr:  entity.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			DomainError(rec, tt.err)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			body := decodeBody(t, rec)
			if body.ErrorCode != tt.wantErr {
				t.Errorf("error_code = %q, want %q", body.ErrorCode, tt.wantErr)
			}
		})
	}
}

func TestDomainErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	DomainError(rec, errors.New("dial tcp 10.0.0.5:6379: connection refused"))

	body := decodeBody(t, rec)
	if body.Error != "internal server error" {
		t.Errorf("error message = %q, want generic message", body.Error)
	}
}

func TestRateLimited(t *testing.T) {
	rec := httptest.NewRecorder()
	RateLimited(rec, "rate limit exceeded: 30 per minute", 42)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	body := decodeBody(t, rec)
	if body.ErrorCode != entity.CodeRateLimited {
		t.Errorf("error_code = %q, want %q", body.ErrorCode, entity.CodeRateLimited)
	}
	if body.RetryAfter != 42 {
		t.Errorf("retry_after = %d, want 42", body.RetryAfter)
	}
}
