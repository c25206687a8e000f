package handler

import (
	"net/http"

	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/service"
)

// ListRooms handles GET /tours/{tourId}/nights/{night}/rooms.
func (s *Server) ListRooms(w http.ResponseWriter, r *http.Request) {
	scope, err := nightScope(r)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	s.listScope(w, r, scope)
}

// CreateRooms handles POST /tours/{tourId}/nights/{night}/rooms.
func (s *Server) CreateRooms(w http.ResponseWriter, r *http.Request) {
	scope, err := nightScope(r)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	var body CreateRoomsRequest
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := s.containers.Create(r.Context(), scope, service.CreateInput{
		Type:         body.Type,
		VariantLabel: body.Label,
		Count:        body.Count,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, containersToResponse(created))
}

// RegenerateRooms handles PUT /tours/{tourId}/nights/{night}/rooms.
// Replacing occupied rooms needs ?confirm=true.
func (s *Server) RegenerateRooms(w http.ResponseWriter, r *http.Request) {
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
	var body RegenerateRoomsRequest
	if !decodeBody(w, r, &body) {
		return
	}
	counts := make(map[domain.RoomType]int, len(body.Counts))
	for typ, n := range body.Counts {
		counts[domain.RoomType(typ)] = n
	}

	created, err := s.containers.Regenerate(r.Context(), scope.TourID, scope.Night,
		service.RegenerateInput{VariantLabel: body.Label, Counts: counts}, confirm)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, containersToResponse(created))
}

// GetNightSummary handles GET /tours/{tourId}/nights/{night}/summary.
func (s *Server) GetNightSummary(w http.ResponseWriter, r *http.Request) {
	scope, err := nightScope(r)
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	sum, err := s.containers.Summary(r.Context(), scope.TourID, scope.Night)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NightSummary{
		Night:      sum.Night,
		Date:       dateOf(sum.Date),
		Rooms:      sum.Rooms,
		Capacity:   sum.Capacity,
		Assigned:   sum.Assigned,
		Unassigned: sum.Unassigned,
	})
}

// ListVehicles handles GET /tours/{tourId}/vehicles.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	s.listScope(w, r, domain.VehicleScope(tourID))
}

// CreateVehicles handles POST /tours/{tourId}/vehicles. Count defaults to 1.
func (s *Server) CreateVehicles(w http.ResponseWriter, r *http.Request) {
	tourID, err := pathUUID(r, "tourId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	var body VehicleRequest
	if !decodeBody(w, r, &body) {
		return
	}
	count := 1
	if body.Count != nil {
		count = *body.Count
	}

	created, err := s.containers.Create(r.Context(), domain.VehicleScope(tourID), service.CreateInput{
		Type:         body.Type,
		VariantLabel: body.Name,
		Count:        count,
		Capacity:     body.Capacity,
		DriverName:   body.DriverName,
		DriverPhone:  body.DriverPhone,
		LicensePlate: body.LicensePlate,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, containersToResponse(created))
}

// UpdateVehicle handles PUT /vehicles/{containerId}.
func (s *Server) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "containerId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	var body VehicleRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Count != nil {
		requestBody(w, "count cannot be changed on an existing vehicle")
		return
	}

	updated, err := s.containers.UpdateVehicle(r.Context(), id, service.VehicleInput{
		Name:         body.Name,
		Type:         body.Type,
		Capacity:     body.Capacity,
		DriverName:   body.DriverName,
		DriverPhone:  body.DriverPhone,
		LicensePlate: body.LicensePlate,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, containerToResponse(updated))
}

// DeleteContainer handles DELETE /containers/{containerId}.
func (s *Server) DeleteContainer(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "containerId")
	if err != nil {
		s.paramError(w, r, err)
		return
	}
	if err := s.containers.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listScope(w http.ResponseWriter, r *http.Request, scope domain.Scope) {
	views, err := s.containers.List(r.Context(), scope)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewsToResponse(views))
}
