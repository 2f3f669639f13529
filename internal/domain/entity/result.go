// Package entity defines the domain model for the Wimbledon finals dataset:
// the Result record, its validation rules, and the error taxonomy shared by
// the lookup pipeline and the HTTP layer.
package entity

import "fmt"

// CancelledChampion marks an edition that was not played. The 2020
// championships were cancelled, and the dataset records that fact as a
// regular row so every year in range resolves.
const CancelledChampion = "Tournament Cancelled"

// Result is a single men's singles final.
type Result struct {
	Year     int    `json:"year"`
	Champion string `json:"champion"`
	RunnerUp string `json:"runner_up"`
	Score    string `json:"score"`
	Sets     int    `json:"sets"`
	Tiebreak bool   `json:"tiebreak"`
	Note     string `json:"note,omitempty"`
}

// Cancelled reports whether the edition was not played.
func (r Result) Cancelled() bool { return r.Champion == CancelledChampion }

// Validate checks structural integrity of a record. A played final must
// carry a runner-up, a score and a set count between 3 and 5. A cancelled
// edition must carry none of those.
func (r Result) Validate() error {
	if r.Year <= 0 {
		return NewValidationError(CodeInvalidFormat, "year must be positive, got %d", r.Year)
	}
	if r.Champion == "" {
		return NewValidationError(CodeInvalidFormat, "champion is required for year %d", r.Year)
	}
	if r.Cancelled() {
		if r.RunnerUp != "" || r.Score != "" || r.Sets != 0 {
			return NewValidationError(CodeInvalidFormat,
				"cancelled edition %d must not carry runner_up, score or sets", r.Year)
		}
		return nil
	}
	if r.RunnerUp == "" {
		return NewValidationError(CodeInvalidFormat, "runner_up is required for year %d", r.Year)
	}
	if r.Score == "" {
		return NewValidationError(CodeInvalidFormat, "score is required for year %d", r.Year)
	}
	if r.Sets < 3 || r.Sets > 5 {
		return NewValidationError(CodeInvalidFormat,
			"sets must be between 3 and 5 for year %d, got %d", r.Year, r.Sets)
	}
	return nil
}

// String is used in logs.
func (r Result) String() string {
	if r.Cancelled() {
		return fmt.Sprintf("%d: cancelled", r.Year)
	}
	return fmt.Sprintf("%d: %s def. %s", r.Year, r.Champion, r.RunnerUp)
}
