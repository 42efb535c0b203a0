package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vroomauto/marketplace/internal/domain"
)

// CreateListing handles POST /api/listings.
// The body is the composite ListingDraft exactly as the seller form collects
// it. Validation failures come back as 422 with one message naming the first
// incomplete section; persistence failures as 500 with the underlying message.
func (s *Server) CreateListing(w http.ResponseWriter, r *http.Request) {
	var draft domain.ListingDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", malformedBodyMessage)
		return
	}

	id, err := s.listings.Create(r.Context(), draft)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// GetListing handles GET /api/listings/{id}.
func (s *Server) GetListing(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "listing id must be a UUID")
		return
	}

	car, err := s.listings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "listing not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, car)
}

// listingsPage is the response envelope for GET /api/listings.
type listingsPage struct {
	Data       []domain.Car `json:"data"`
	Pagination pagination   `json:"pagination"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListListings handles GET /api/listings.
// Supports ?brand=, ?fuel=, ?status=, ?max_price= filters and ?page=/?limit=
// pagination (defaults: page=1, limit=20, max=100).
func (s *Server) ListListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := domain.ListingFilters{
		Brand:    q.Get("brand"),
		FuelType: q.Get("fuel"),
		Status:   q.Get("status"),
	}
	if mp, err := strconv.Atoi(q.Get("max_price")); err == nil {
		filters.MaxPrice = mp
	}

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	params := domain.NewPaginationParams(page, limit)

	cars, total, err := s.listings.List(r.Context(), filters, params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listingsPage{
		Data: cars,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
