package final

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"wimbledon-api/internal/domain/entity"
	"wimbledon-api/internal/handler/http/respond"
)

// Service is the lookup pipeline the handlers call.
type Service interface {
	Lookup(ctx context.Context, year int) (entity.Result, error)
	Years(ctx context.Context) ([]int, error)
	Bounds() (min, max int)
}

// Handler serves the finals lookup routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// NewHandler creates the handler.
func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /wimbledon", h.Simple)
	mux.HandleFunc("GET /api/wimbledon", h.Detailed)
	mux.HandleFunc("GET /api/wimbledon/years", h.Years)
}

// Simple handles GET /wimbledon?year=YYYY with the bare result fields.
func (h *Handler) Simple(w http.ResponseWriter, r *http.Request) {
	result, err := h.lookup(r)
	if err != nil {
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// Detailed handles GET /api/wimbledon?year=YYYY with response metadata.
func (h *Handler) Detailed(w http.ResponseWriter, r *http.Request) {
	result, err := h.lookup(r)
	if err != nil {
		if errors.Is(err, entity.ErrYearNotFound) {
			respond.JSON(w, http.StatusNotFound, notFoundResponse{
				Error:                  "no data available for the requested year",
				ErrorCode:              entity.CodeYearNotFound,
				AvailableYearsEndpoint: "/api/wimbledon/years",
			})
			return
		}
		respond.DomainError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, DetailedResponse{
		Result:   result,
		Metadata: newMetadata(time.Now()),
	})
}

// Years handles GET /api/wimbledon/years.
func (h *Handler) Years(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.Years(r.Context())
	if err != nil {
		respond.DomainError(w, fmt.Errorf("list years: %w", err))
		return
	}
	min, max := h.service.Bounds()
	respond.JSON(w, http.StatusOK, YearsResponse{
		Years:      years,
		TotalYears: len(years),
		Range:      YearRange{Earliest: min, Latest: max},
		Metadata:   newMetadata(time.Now()),
	})
}

func (h *Handler) lookup(r *http.Request) (entity.Result, error) {
	min, max := h.service.Bounds()
	year, err := entity.ParseYear(r.URL.Query().Get("year"), min, max)
	if err != nil {
		return entity.Result{}, err
	}
	return h.service.Lookup(r.Context(), year)
}
