// Package final contains the HTTP handlers for the finals lookup routes.
package final

import (
	"time"

	"wimbledon-api/internal/domain/entity"
)

// Fixed metadata values in the detailed envelope.
const (
	DataSource = "Wimbledon Championships Records"
	APIVersion = "1.0.0"
)

// Metadata accompanies detailed responses.
type Metadata struct {
	RetrievedAt string `json:"retrieved_at"`
	DataSource  string `json:"data_source"`
	APIVersion  string `json:"api_version"`
}

func newMetadata(now time.Time) Metadata {
	return Metadata{
		RetrievedAt: now.UTC().Format(time.RFC3339),
		DataSource:  DataSource,
		APIVersion:  APIVersion,
	}
}

// DetailedResponse is the /api/wimbledon envelope: the result fields plus
// metadata.
type DetailedResponse struct {
	entity.Result
	Metadata Metadata `json:"metadata"`
}

// YearRange is the inclusive bounds block in the years envelope.
type YearRange struct {
	Earliest int `json:"earliest"`
	Latest   int `json:"latest"`
}

// YearsResponse is the /api/wimbledon/years envelope.
type YearsResponse struct {
	Years      []int     `json:"years"`
	TotalYears int       `json:"total_years"`
	Range      YearRange `json:"range"`
	Metadata   Metadata  `json:"metadata"`
}

// notFoundResponse is the detailed 404 envelope. It points clients at the
// years route so they can discover valid input.
type notFoundResponse struct {
	Error                  string `json:"error"`
	ErrorCode              string `json:"error_code"`
	AvailableYearsEndpoint string `json:"available_years_endpoint"`
}
