package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ListNights handles GET /tours/{tourId}/nights.
func (s *Server) ListNights(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	nights, err := s.continuation.ListNights(r.Context(), tourID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]Night, len(nights))
	for i, n := range nights {
		out[i] = Night{
			Night:      n.Night,
			Date:       dateOf(n.Date),
			Continued:  n.Continued,
			Source:     n.Source,
			Containers: n.Containers,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetNightConfig handles GET /tours/{tourId}/nights/{night}/config.
func (s *Server) GetNightConfig(w http.ResponseWriter, r *http.Request) {
	scope, err := nightScope(r)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	cfg, err := s.continuation.EffectiveConfig(r.Context(), scope.TourID, scope.Night)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, configToResponse(cfg))
}

// EnableContinuation handles PUT /tours/{tourId}/nights/{night}/continuation.
// Replacing occupied rooms needs ?confirm=true.
func (s *Server) EnableContinuation(w http.ResponseWriter, r *http.Request) {
	scope, err := nightScope(r)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	confirm, err := queryConfirm(r)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	created, err := s.continuation.Enable(r.Context(), scope.TourID, scope.Night, confirm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, containersToResponse(created))
}

// DisableContinuation handles DELETE /tours/{tourId}/nights/{night}/continuation.
func (s *Server) DisableContinuation(w http.ResponseWriter, r *http.Request) {
	scope, err := nightScope(r)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	if err := s.continuation.Disable(r.Context(), scope.TourID, scope.Night); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func dateOf(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: t}
}
