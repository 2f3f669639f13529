package final

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wimbledon-api/internal/domain/entity"
)

type stubService struct {
	results  map[int]entity.Result
	min, max int
	yearsErr error
}

func (s *stubService) Lookup(_ context.Context, year int) (entity.Result, error) {
	if r, ok := s.results[year]; ok {
		return r, nil
	}
	return entity.Result{}, fmt.Errorf("year %d: %w", year, entity.ErrYearNotFound)
}

func (s *stubService) Years(_ context.Context) ([]int, error) {
	if s.yearsErr != nil {
		return nil, s.yearsErr
	}
	years := make([]int, 0, len(s.results))
	for y := s.min; y <= s.max; y++ {
		if _, ok := s.results[y]; ok {
			years = append(years, y)
		}
	}
	return years, nil
}

func (s *stubService) Bounds() (int, int) { return s.min, s.max }

func newTestMux(svc Service) *http.ServeMux {
	mux := http.NewServeMux()
	NewHandler(svc, slog.New(slog.DiscardHandler)).Register(mux)
	return mux
}

func testService() *stubService {
	return &stubService{
		min: 2014,
		max: 2024,
		results: map[int]entity.Result{
			2021: {
				Year:     2021,
				Champion: "Novak Djokovic",
				RunnerUp: "Matteo Berrettini",
				Score:    "6-7(4-7), 6-4, 6-4, 6-3",
				Sets:     4,
				Tiebreak: true,
			},
			2020: {
				Year:     2020,
				Champion: entity.CancelledChampion,
				Note:     "Cancelled due to the COVID-19 pandemic",
			},
			2024: {
				Year:     2024,
				Champion: "Carlos Alcaraz",
				RunnerUp: "Novak Djokovic",
				Score:    "6-2, 6-2, 7-6(7-4)",
				Sets:     3,
				Tiebreak: true,
			},
		},
	}
}

func doGet(t *testing.T, mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSimpleReturnsBareResult(t *testing.T) {
	mux := newTestMux(testService())
	rec := doGet(t, mux, "/wimbledon?year=2021")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	body := decodeBody(t, rec)
	if body["champion"] != "Novak Djokovic" {
		t.Errorf("champion = %v", body["champion"])
	}
	if body["score"] != "6-7(4-7), 6-4, 6-4, 6-3" {
		t.Errorf("score = %v", body["score"])
	}
	if body["sets"] != float64(4) {
		t.Errorf("sets = %v", body["sets"])
	}
	if body["tiebreak"] != true {
		t.Errorf("tiebreak = %v", body["tiebreak"])
	}
	if _, ok := body["metadata"]; ok {
		t.Error("simple envelope must not carry metadata")
	}
}

func TestSimpleOmitsEmptyNote(t *testing.T) {
	mux := newTestMux(testService())
	rec := doGet(t, mux, "/wimbledon?year=2024")

	body := decodeBody(t, rec)
	if _, ok := body["note"]; ok {
		t.Errorf("note present on a played final: %v", body["note"])
	}
}

func TestSimpleCancelledYear(t *testing.T) {
	mux := newTestMux(testService())
	rec := doGet(t, mux, "/wimbledon?year=2020")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["champion"] != entity.CancelledChampion {
		t.Errorf("champion = %v", body["champion"])
	}
	if body["note"] != "Cancelled due to the COVID-19 pandemic" {
		t.Errorf("note = %v", body["note"])
	}
}

func TestSimpleValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantCode string
	}{
		{"missing year", "/wimbledon", entity.CodeMissingParameter},
		{"blank year", "/wimbledon?year=", entity.CodeMissingParameter},
		{"non-numeric year", "/wimbledon?year=twenty", entity.CodeInvalidFormat},
		{"below range", "/wimbledon?year=2013", entity.CodeOutOfRange},
		{"above range", "/wimbledon?year=2025", entity.CodeOutOfRange},
	}

	mux := newTestMux(testService())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, mux, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["error_code"] != tt.wantCode {
				t.Errorf("error_code = %v, want %s", body["error_code"], tt.wantCode)
			}
			if body["error"] == "" {
				t.Error("error message is empty")
			}
		})
	}
}

func TestSimpleYearNotFound(t *testing.T) {
	// 2022 is in range but absent from the stub dataset.
	mux := newTestMux(testService())
	rec := doGet(t, mux, "/wimbledon?year=2022")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != entity.CodeYearNotFound {
		t.Errorf("error_code = %v", body["error_code"])
	}
}

func TestDetailedIncludesMetadata(t *testing.T) {
	mux := newTestMux(testService())
	rec := doGet(t, mux, "/api/wimbledon?year=2024")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["champion"] != "Carlos Alcaraz" {
		t.Errorf("champion = %v", body["champion"])
	}

	meta, ok := body["metadata"].(map[string]any)
	if !ok {
		t.Fatalf("metadata missing or wrong type: %v", body["metadata"])
	}
	if meta["data_source"] != DataSource {
		t.Errorf("data_source = %v", meta["data_source"])
	}
	if meta["api_version"] != APIVersion {
		t.Errorf("api_version = %v", meta["api_version"])
	}
	retrievedAt, _ := meta["retrieved_at"].(string)
	ts, err := time.Parse(time.RFC3339, retrievedAt)
	if err != nil {
		t.Fatalf("retrieved_at %q is not RFC3339: %v", retrievedAt, err)
	}
	if since := time.Since(ts); since < 0 || since > time.Minute {
		t.Errorf("retrieved_at %v is not current", ts)
	}
}

func TestDetailedNotFoundPointsAtYears(t *testing.T) {
	mux := newTestMux(testService())
	rec := doGet(t, mux, "/api/wimbledon?year=2022")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != entity.CodeYearNotFound {
		t.Errorf("error_code = %v", body["error_code"])
	}
	if body["available_years_endpoint"] != "/api/wimbledon/years" {
		t.Errorf("available_years_endpoint = %v", body["available_years_endpoint"])
	}
}

func TestDetailedValidationError(t *testing.T) {
	mux := newTestMux(testService())
	rec := doGet(t, mux, "/api/wimbledon?year=abc")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != entity.CodeInvalidFormat {
		t.Errorf("error_code = %v", body["error_code"])
	}
	if _, ok := body["available_years_endpoint"]; ok {
		t.Error("validation errors must not carry available_years_endpoint")
	}
}

func TestYearsEnvelope(t *testing.T) {
	mux := newTestMux(testService())
	rec := doGet(t, mux, "/api/wimbledon/years")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp YearsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []int{2020, 2021, 2024}
	if len(resp.Years) != len(want) {
		t.Fatalf("years = %v, want %v", resp.Years, want)
	}
	for i, y := range want {
		if resp.Years[i] != y {
			t.Errorf("years[%d] = %d, want %d (ascending order)", i, resp.Years[i], y)
		}
	}
	if resp.TotalYears != 3 {
		t.Errorf("total_years = %d, want 3", resp.TotalYears)
	}
	if resp.Range.Earliest != 2014 || resp.Range.Latest != 2024 {
		t.Errorf("range = %+v", resp.Range)
	}
	if resp.Metadata.DataSource != DataSource {
		t.Errorf("data_source = %q", resp.Metadata.DataSource)
	}
}

func TestYearsServiceError(t *testing.T) {
	svc := testService()
	svc.yearsErr = fmt.Errorf("singleflight collapsed")
	mux := newTestMux(svc)
	rec := doGet(t, mux, "/api/wimbledon/years")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error_code"] != entity.CodeInternalError {
		t.Errorf("error_code = %v", body["error_code"])
	}
	if body["error"] != "internal server error" {
		t.Errorf("error = %v, internal detail must not leak", body["error"])
	}
}
