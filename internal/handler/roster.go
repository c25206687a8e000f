package handler

import (
	"net/http"
)

// GetRoster handles GET /tours/{tourId}/roster?scope=room&night=n.
func (s *Server) GetRoster(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	scope, err := queryScope(r, tourID)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	view, err := s.roster.View(r.Context(), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterToResponse(view))
}

// MoveRoster handles POST /tours/{tourId}/roster/move: one drag-and-drop of
// dragged onto target. Roommates in the given scope move along.
func (s *Server) MoveRoster(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	var body MoveRequest
	if !decodeBody(w, r, &body) {
		return
	}
	scope, err := body.resolve(tourID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.roster.Move(r.Context(), scope, body.Dragged, body.Target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterToResponse(view))
}

// ResortRoster handles POST /tours/{tourId}/roster/resort.
func (s *Server) ResortRoster(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	var body scopeRef
	if !decodeBody(w, r, &body) {
		return
	}
	scope, err := body.resolve(tourID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.roster.Resort(r.Context(), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterToResponse(view))
}

// SyncRoomOrder handles POST /tours/{tourId}/nights/{night}/rooms/sync-order:
// renumbers the night's rooms to follow the roster.
func (s *Server) SyncRoomOrder(w http.ResponseWriter, r *http.Request) {
	scope, err := nightScope(r)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	views, err := s.roster.SyncDisplayOrder(r.Context(), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewsToResponse(views))
}
