package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/allocation"
	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/metrics"
	"github.com/pkordes/tour-allocation/internal/repo"
)

// AssignmentService places travelers into rooms and vehicles.
type AssignmentService struct {
	tours       repo.TourRepo
	travelers   repo.TravelerRepo
	containers  repo.ContainerRepo
	assignments repo.AssignmentRepo
	metrics     *metrics.Metrics
	log         *slog.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(
	tours repo.TourRepo,
	travelers repo.TravelerRepo,
	containers repo.ContainerRepo,
	assignments repo.AssignmentRepo,
	m *metrics.Metrics,
	log *slog.Logger,
) *AssignmentService {
	return &AssignmentService{
		tours:       tours,
		travelers:   travelers,
		containers:  containers,
		assignments: assignments,
		metrics:     m,
		log:         orDefault(log),
	}
}

// Assign puts a traveler into a container. The capacity and scope uniqueness
// checks run inside the store transaction that locks the container, so two
// concurrent calls can never both take the last place.
func (s *AssignmentService) Assign(ctx context.Context, containerID, travelerID uuid.UUID) (domain.Assignment, error) {
	a, kind, err := s.assign(ctx, containerID, travelerID)
	s.metrics.ObserveAssign(kind, err)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("service.AssignmentService.Assign: %w", err)
	}
	s.log.InfoContext(ctx, "traveler assigned",
		"container_id", containerID, "traveler_id", travelerID, "kind", a.Kind, "night", a.Night)
	return a, nil
}

func (s *AssignmentService) assign(ctx context.Context, containerID, travelerID uuid.UUID) (domain.Assignment, domain.Kind, error) {
	target, err := s.containers.GetByID(ctx, containerID)
	if err != nil {
		return domain.Assignment{}, "", err
	}
	traveler, err := s.travelers.GetByID(ctx, travelerID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.Assignment{}, target.Kind, fmt.Errorf("%w: unknown traveler %s", domain.ErrValidation, travelerID)
	case err != nil:
		return domain.Assignment{}, target.Kind, err
	case traveler.TourID != target.TourID:
		return domain.Assignment{}, target.Kind, fmt.Errorf("%w: traveler is not on this tour", domain.ErrValidation)
	}

	guard := func(locked domain.Container, scope []domain.Assignment) error {
		return allocation.CheckAssign(locked, travelerID, scope)
	}
	a, err := s.assignments.Create(ctx, domain.Assignment{ContainerID: containerID, TravelerID: travelerID}, guard)
	return a, target.Kind, err
}

// Unassign removes an assignment.
func (s *AssignmentService) Unassign(ctx context.Context, assignmentID uuid.UUID) error {
	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		return fmt.Errorf("service.AssignmentService.Unassign: %w", err)
	}
	s.log.InfoContext(ctx, "traveler unassigned", "assignment_id", assignmentID)
	return nil
}

// ListOccupants returns the travelers held by a container in assignment order.
func (s *AssignmentService) ListOccupants(ctx context.Context, containerID uuid.UUID) ([]Occupant, error) {
	c, err := s.containers.GetByID(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("service.AssignmentService.ListOccupants: %w", err)
	}
	held, err := s.assignments.ListByContainer(ctx, containerID)
	if err != nil {
		return nil, fmt.Errorf("service.AssignmentService.ListOccupants: %w", err)
	}
	_, names, err := travelerNames(ctx, s.travelers, c.TourID)
	if err != nil {
		return nil, fmt.Errorf("service.AssignmentService.ListOccupants: %w", err)
	}

	out := make([]Occupant, len(held))
	for i, a := range held {
		out[i] = Occupant{AssignmentID: a.ID, TravelerID: a.TravelerID, DisplayName: names[a.TravelerID]}
	}
	return out, nil
}

// ListUnassigned returns the travelers without a container in the scope, in
// roster source order.
func (s *AssignmentService) ListUnassigned(ctx context.Context, scope domain.Scope) ([]domain.Traveler, error) {
	if _, err := loadScope(ctx, s.tours, scope); err != nil {
		return nil, fmt.Errorf("service.AssignmentService.ListUnassigned: %w", err)
	}
	travelers, err := s.travelers.ListByTour(ctx, scope.TourID)
	if err != nil {
		return nil, fmt.Errorf("service.AssignmentService.ListUnassigned: %w", err)
	}
	held, err := s.assignments.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("service.AssignmentService.ListUnassigned: %w", err)
	}
	return allocation.Unassigned(travelers, held), nil
}
