package handler

import (
	"errors"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// CreateTour handles POST /tours.
func (s *Server) CreateTour(w http.ResponseWriter, r *http.Request) {
	var body TourRequest
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := s.tours.Create(r.Context(), requestToTour(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tourToResponse(created))
}

// ListTours handles GET /tours.
func (s *Server) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := s.tours.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]Tour, len(tours))
	for i, t := range tours {
		out[i] = tourToResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetTour handles GET /tours/{tourId}.
func (s *Server) GetTour(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	tour, err := s.tours.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tourToResponse(tour))
}

// UpdateTour handles PUT /tours/{tourId}.
func (s *Server) UpdateTour(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	var body TourRequest
	if !decodeBody(w, r, &body) {
		return
	}
	tour := requestToTour(body)
	tour.ID = id

	updated, err := s.tours.Update(r.Context(), tour)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tourToResponse(updated))
}

// DeleteTour handles DELETE /tours/{tourId}.
func (s *Server) DeleteTour(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	if err := s.tours.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTravelers handles GET /tours/{tourId}/travelers.
// Supports ?page= and ?limit= (defaults: page=1, limit=50, max=200).
func (s *Server) ListTravelers(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	var page, limit *int
	q := r.URL.Query()
	err = errors.Join(
		runtime.BindQueryParameter("form", true, false, "page", q, &page),
		runtime.BindQueryParameter("form", true, false, "limit", q, &limit),
	)
	if err != nil {
		s.paramError(w, r, err)
		return
	}

	params := domain.NewPaginationParams(page, limit)
	travelers, total, err := s.tours.ListTravelers(r.Context(), id, params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TravelerPage{
		Data:       travelersToResponse(travelers),
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: int(total)},
	})
}

// requestToTour converts a request body into a domain.Tour. Field rules are
// checked by the service.
func requestToTour(body TourRequest) domain.Tour {
	t := domain.Tour{
		Name:          body.Name,
		DepartureDate: body.DepartureDate.Time,
	}
	if body.ReturnDate != nil {
		rd := body.ReturnDate.Time
		t.ReturnDate = &rd
	}
	return t
}
