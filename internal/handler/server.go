// Package handler implements the HTTP handlers for the tour allocation API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (tour.go, container.go, night.go, ...) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/allocation"
	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/service"
)

// TourServicer defines the tour operations the handlers depend on.
// Interfaces live here, in the consumer package, so handler tests can inject
// mocks without touching the database or the service layer.
type TourServicer interface {
	Create(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error)
	List(ctx context.Context) ([]domain.Tour, error)
	Update(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListTravelers(ctx context.Context, tourID uuid.UUID, p domain.PaginationParams) ([]domain.Traveler, int64, error)
}

// ContainerServicer manages rooms and vehicles.
type ContainerServicer interface {
	Create(ctx context.Context, scope domain.Scope, in service.CreateInput) ([]domain.Container, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Regenerate(ctx context.Context, tourID uuid.UUID, night int, in service.RegenerateInput, confirm bool) ([]domain.Container, error)
	UpdateVehicle(ctx context.Context, id uuid.UUID, in service.VehicleInput) (domain.Container, error)
	List(ctx context.Context, scope domain.Scope) ([]service.ContainerView, error)
	Summary(ctx context.Context, tourID uuid.UUID, night int) (service.NightSummary, error)
}

// ContinuationServicer handles per-night continuation.
type ContinuationServicer interface {
	EffectiveConfig(ctx context.Context, tourID uuid.UUID, night int) (allocation.NightConfig, error)
	Enable(ctx context.Context, tourID uuid.UUID, night int, confirm bool) ([]domain.Container, error)
	Disable(ctx context.Context, tourID uuid.UUID, night int) error
	ListNights(ctx context.Context, tourID uuid.UUID) ([]service.NightView, error)
}

// AssignmentServicer places travelers into containers.
type AssignmentServicer interface {
	Assign(ctx context.Context, containerID, travelerID uuid.UUID) (domain.Assignment, error)
	Unassign(ctx context.Context, assignmentID uuid.UUID) error
	ListOccupants(ctx context.Context, containerID uuid.UUID) ([]service.Occupant, error)
	ListUnassigned(ctx context.Context, scope domain.Scope) ([]domain.Traveler, error)
}

// RosterServicer maintains the grouped roster order.
type RosterServicer interface {
	View(ctx context.Context, scope domain.Scope) (service.RosterView, error)
	Move(ctx context.Context, scope domain.Scope, dragged, target uuid.UUID) (service.RosterView, error)
	Resort(ctx context.Context, scope domain.Scope) (service.RosterView, error)
	SyncDisplayOrder(ctx context.Context, scope domain.Scope) ([]service.ContainerView, error)
}

// ExportServicer builds the rooming list.
type ExportServicer interface {
	RoomingList(ctx context.Context, tourID uuid.UUID) ([]domain.RoomingRow, error)
}

// Server holds the services behind every endpoint.
type Server struct {
	tours        TourServicer
	containers   ContainerServicer
	continuation ContinuationServicer
	assignments  AssignmentServicer
	roster       RosterServicer
	export       ExportServicer
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies. A nil logger
// falls back to slog.Default().
func NewServer(
	tours TourServicer,
	containers ContainerServicer,
	continuation ContinuationServicer,
	assignments AssignmentServicer,
	roster RosterServicer,
	export ExportServicer,
	log *slog.Logger,
) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		tours:        tours,
		containers:   containers,
		continuation: continuation,
		assignments:  assignments,
		roster:       roster,
		export:       export,
		log:          log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil, nil, nil, nil)
}

// Routes returns the API router. main.go mounts it under "/" after the
// shared middleware stack.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/tours", func(r chi.Router) {
		r.Get("/", s.ListTours)
		r.Post("/", s.CreateTour)

		r.Route("/{tourId}", func(r chi.Router) {
			r.Get("/", s.GetTour)
			r.Put("/", s.UpdateTour)
			r.Delete("/", s.DeleteTour)
			r.Get("/travelers", s.ListTravelers)
			r.Get("/rooming-list", s.GetRoomingList)

			r.Get("/nights", s.ListNights)
			r.Route("/nights/{night}", func(r chi.Router) {
				r.Get("/rooms", s.ListRooms)
				r.Post("/rooms", s.CreateRooms)
				r.Put("/rooms", s.RegenerateRooms)
				r.Post("/rooms/sync-order", s.SyncRoomOrder)
				r.Get("/config", s.GetNightConfig)
				r.Get("/summary", s.GetNightSummary)
				r.Put("/continuation", s.EnableContinuation)
				r.Delete("/continuation", s.DisableContinuation)
				r.Get("/unassigned", s.ListUnassignedForNight)
			})

			r.Get("/vehicles", s.ListVehicles)
			r.Post("/vehicles", s.CreateVehicles)
			r.Get("/vehicles/unassigned", s.ListUnassignedForVehicles)

			r.Get("/roster", s.GetRoster)
			r.Post("/roster/move", s.MoveRoster)
			r.Post("/roster/resort", s.ResortRoster)
		})
	})

	r.Put("/vehicles/{containerId}", s.UpdateVehicle)
	r.Delete("/containers/{containerId}", s.DeleteContainer)
	r.Get("/containers/{containerId}/occupants", s.ListOccupants)
	r.Post("/containers/{containerId}/assignments", s.Assign)
	r.Delete("/assignments/{assignmentId}", s.Unassign)

	return r
}
