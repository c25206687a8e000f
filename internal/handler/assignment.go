package handler

import (
	"net/http"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// Assign handles POST /containers/{containerId}/assignments.
func (s *Server) Assign(w http.ResponseWriter, r *http.Request) {
	containerID, err := pathUUID(r, "containerId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	var body AssignRequest
	if !decodeBody(w, r, &body) {
		return
	}
	a, err := s.assignments.Assign(r.Context(), containerID, body.TravelerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignmentToResponse(a))
}

// Unassign handles DELETE /assignments/{assignmentId}.
func (s *Server) Unassign(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "assignmentId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	if err := s.assignments.Unassign(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOccupants handles GET /containers/{containerId}/occupants.
func (s *Server) ListOccupants(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "containerId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	occupants, err := s.assignments.ListOccupants(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, occupantsToResponse(occupants))
}

// ListUnassignedForNight handles GET /tours/{tourId}/nights/{night}/unassigned.
func (s *Server) ListUnassignedForNight(w http.ResponseWriter, r *http.Request) {
	scope, err := nightScope(r)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	s.listUnassigned(w, r, scope)
}

// ListUnassignedForVehicles handles GET /tours/{tourId}/vehicles/unassigned.
func (s *Server) ListUnassignedForVehicles(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	s.listUnassigned(w, r, domain.VehicleScope(tourID))
}

func (s *Server) listUnassigned(w http.ResponseWriter, r *http.Request, scope domain.Scope) {
	travelers, err := s.assignments.ListUnassigned(r.Context(), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, travelersToResponse(travelers))
}
