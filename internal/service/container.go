package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/allocation"
	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/metrics"
	"github.com/pkordes/tour-allocation/internal/repo"
)

// CreateInput describes a batch of identical containers to add to a scope.
type CreateInput struct {
	Type         string
	VariantLabel string
	Count        int

	// Vehicle-only. Capacity 0 means the vehicle type's default seat count.
	Capacity     int
	DriverName   string
	DriverPhone  string
	LicensePlate string
}

// RegenerateInput is a bulk room layout for one night.
type RegenerateInput struct {
	VariantLabel string
	Counts       map[domain.RoomType]int
}

// VehicleInput carries the editable fields of a vehicle.
type VehicleInput struct {
	Name         string
	Type         string
	Capacity     int
	DriverName   string
	DriverPhone  string
	LicensePlate string
}

// Occupant is one traveler held by a container.
type Occupant struct {
	AssignmentID uuid.UUID
	TravelerID   uuid.UUID
	DisplayName  string
}

// ContainerView is a container as the operator sees it: numbered, labelled
// and with its occupancy derived from the assignments.
type ContainerView struct {
	domain.Container
	Number      int
	Label       string
	OptionLabel string
	Occupied    int
	Remaining   int
	Full        bool
	Occupants   []Occupant
}

// NightSummary totals one night's rooms.
type NightSummary struct {
	Night      int
	Date       time.Time
	Rooms      int
	Capacity   int
	Assigned   int
	Unassigned int
}

// ContainerService manages the pool of rooms and vehicles of a tour.
type ContainerService struct {
	tours       repo.TourRepo
	travelers   repo.TravelerRepo
	containers  repo.ContainerRepo
	assignments repo.AssignmentRepo
	nights      repo.NightRepo
	metrics     *metrics.Metrics
	log         *slog.Logger
}

// NewContainerService constructs a ContainerService.
func NewContainerService(
	tours repo.TourRepo,
	travelers repo.TravelerRepo,
	containers repo.ContainerRepo,
	assignments repo.AssignmentRepo,
	nights repo.NightRepo,
	m *metrics.Metrics,
	log *slog.Logger,
) *ContainerService {
	return &ContainerService{
		tours:       tours,
		travelers:   travelers,
		containers:  containers,
		assignments: assignments,
		nights:      nights,
		metrics:     m,
		log:         orDefault(log),
	}
}

// Create appends in.Count containers of one type to the scope, numbered after
// the containers already there. A non-positive count is a no-op; counts above
// domain.MaxBatchCount are rejected. Adding rooms to a continued night makes
// that night independent.
func (s *ContainerService) Create(ctx context.Context, scope domain.Scope, in CreateInput) ([]domain.Container, error) {
	if _, err := loadScope(ctx, s.tours, scope); err != nil {
		return nil, fmt.Errorf("service.ContainerService.Create: %w", err)
	}
	template, err := containerTemplate(scope, in)
	if err != nil {
		return nil, fmt.Errorf("service.ContainerService.Create: %w", err)
	}
	if in.Count <= 0 {
		return []domain.Container{}, nil
	}

	existing, err := s.containers.ListByScope(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("service.ContainerService.Create: %w", err)
	}
	if err := s.detachNight(ctx, scope); err != nil {
		return nil, fmt.Errorf("service.ContainerService.Create: %w", err)
	}
	next := allocation.NextDisplayOrder(existing)
	batch := make([]domain.Container, in.Count)
	for i := range batch {
		batch[i] = template
		batch[i].DisplayOrder = next + i
	}

	created, err := s.containers.CreateBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("service.ContainerService.Create: %w", err)
	}
	s.log.InfoContext(ctx, "containers created",
		"scope", scope.String(), "type", template.Type, "count", len(created))
	return created, nil
}

// containerTemplate validates in against the scope's kind and returns the
// container every created copy starts from.
func containerTemplate(scope domain.Scope, in CreateInput) (domain.Container, error) {
	if in.Count > domain.MaxBatchCount {
		return domain.Container{}, fmt.Errorf("%w: count must be at most %d", domain.ErrValidation, domain.MaxBatchCount)
	}
	c := domain.Container{
		TourID:       scope.TourID,
		Kind:         scope.Kind,
		Night:        scope.Night,
		VariantLabel: strings.TrimSpace(in.VariantLabel),
	}
	switch scope.Kind {
	case domain.KindRoom:
		rt, err := domain.ParseRoomType(in.Type)
		if err != nil {
			return domain.Container{}, err
		}
		c.Type, c.Capacity = string(rt), rt.Capacity()
	case domain.KindVehicle:
		vt, err := domain.ParseVehicleType(in.Type)
		if err != nil {
			return domain.Container{}, err
		}
		if c.VariantLabel == "" {
			return domain.Container{}, fmt.Errorf("%w: vehicle name is required", domain.ErrValidation)
		}
		capacity := vt.DefaultCapacity()
		if in.Capacity != 0 {
			capacity = in.Capacity
		}
		if capacity < 1 {
			return domain.Container{}, fmt.Errorf("%w: capacity must be at least 1", domain.ErrValidation)
		}
		c.Type, c.Capacity = string(vt), capacity
		c.DriverName = strings.TrimSpace(in.DriverName)
		c.DriverPhone = strings.TrimSpace(in.DriverPhone)
		c.LicensePlate = strings.TrimSpace(in.LicensePlate)
	}
	return c, nil
}

// Delete removes a container; its assignments go with it and the remaining
// containers of the scope renumber on the next read. Deleting a room of a
// continued night makes that night independent.
func (s *ContainerService) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.containers.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.ContainerService.Delete: %w", err)
	}
	if err := s.containers.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ContainerService.Delete: %w", err)
	}
	if err := s.detachNight(ctx, c.Scope()); err != nil {
		return fmt.Errorf("service.ContainerService.Delete: %w", err)
	}
	s.log.InfoContext(ctx, "container deleted", "container_id", id)
	return nil
}

// Regenerate replaces every room of the night with the given layout, laid
// out double, triple, single, quad. If any current room is occupied the call
// fails with domain.ErrConfirmationRequired unless confirm is set. A
// regenerated night owns its rooms, so its continuation flag is cleared.
func (s *ContainerService) Regenerate(ctx context.Context, tourID uuid.UUID, night int, in RegenerateInput, confirm bool) ([]domain.Container, error) {
	scope := domain.RoomScope(tourID, night)
	if _, err := loadScope(ctx, s.tours, scope); err != nil {
		return nil, fmt.Errorf("service.ContainerService.Regenerate: %w", err)
	}
	if strings.TrimSpace(in.VariantLabel) == "" {
		return nil, fmt.Errorf("service.ContainerService.Regenerate: %w: room label is required", domain.ErrValidation)
	}
	for rt, n := range in.Counts {
		if _, err := domain.ParseRoomType(string(rt)); err != nil {
			return nil, fmt.Errorf("service.ContainerService.Regenerate: %w", err)
		}
		if n < 0 {
			return nil, fmt.Errorf("service.ContainerService.Regenerate: %w: negative count for %s", domain.ErrValidation, rt)
		}
		if n > domain.MaxBatchCount {
			return nil, fmt.Errorf("service.ContainerService.Regenerate: %w: count for %s must be at most %d", domain.ErrValidation, rt, domain.MaxBatchCount)
		}
	}

	plan := allocation.PlanRegeneration(scope, in.VariantLabel, in.Counts)
	created, err := s.containers.ReplaceScope(ctx, scope, plan, confirmGuard(confirm))
	if err != nil {
		return nil, fmt.Errorf("service.ContainerService.Regenerate: %w", err)
	}
	if err := s.detachNight(ctx, scope); err != nil {
		return nil, fmt.Errorf("service.ContainerService.Regenerate: %w", err)
	}
	s.metrics.IncReplacement("regenerate")
	s.log.InfoContext(ctx, "rooms regenerated", "scope", scope.String(), "count", len(created), "confirmed", confirm)
	return created, nil
}

// detachNight clears the continuation flag of a room night whose rooms were
// edited directly. A continued night mirrors its source, so once it holds
// rooms of its own it must resolve to itself.
func (s *ContainerService) detachNight(ctx context.Context, scope domain.Scope) error {
	if scope.Kind != domain.KindRoom || scope.Night <= 1 {
		return nil
	}
	states, err := s.nights.List(ctx, scope.TourID)
	if err != nil {
		return err
	}
	for _, st := range states {
		if st.Night == scope.Night && st.Continued {
			if err := s.nights.SetContinued(ctx, scope.TourID, scope.Night, false); err != nil {
				return err
			}
			s.log.InfoContext(ctx, "continuation cleared by room edit", "scope", scope.String())
			return nil
		}
	}
	return nil
}

// confirmGuard rejects replacing occupied containers unless confirm is set.
func confirmGuard(confirm bool) domain.ReplaceGuard {
	return func(existing []domain.Container, held []domain.Assignment) error {
		if !confirm && allocation.HasOccupants(existing, held) {
			return fmt.Errorf("%w: %d travelers would lose their assignment", domain.ErrConfirmationRequired, len(held))
		}
		return nil
	}
}

// UpdateVehicle edits a vehicle. Capacity may drop below the current
// occupancy; only new assignments are checked against it.
func (s *ContainerService) UpdateVehicle(ctx context.Context, id uuid.UUID, in VehicleInput) (domain.Container, error) {
	current, err := s.containers.GetByID(ctx, id)
	if err != nil {
		return domain.Container{}, fmt.Errorf("service.ContainerService.UpdateVehicle: %w", err)
	}
	if current.Kind != domain.KindVehicle {
		return domain.Container{}, fmt.Errorf("service.ContainerService.UpdateVehicle: %w: container is not a vehicle", domain.ErrValidation)
	}
	vt, err := domain.ParseVehicleType(in.Type)
	if err != nil {
		return domain.Container{}, fmt.Errorf("service.ContainerService.UpdateVehicle: %w", err)
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Container{}, fmt.Errorf("service.ContainerService.UpdateVehicle: %w: vehicle name is required", domain.ErrValidation)
	}
	if in.Capacity < 1 {
		return domain.Container{}, fmt.Errorf("service.ContainerService.UpdateVehicle: %w: capacity must be at least 1", domain.ErrValidation)
	}

	current.VariantLabel = strings.TrimSpace(in.Name)
	current.Type = string(vt)
	current.Capacity = in.Capacity
	current.DriverName = strings.TrimSpace(in.DriverName)
	current.DriverPhone = strings.TrimSpace(in.DriverPhone)
	current.LicensePlate = strings.TrimSpace(in.LicensePlate)

	updated, err := s.containers.UpdateVehicle(ctx, current)
	if err != nil {
		return domain.Container{}, fmt.Errorf("service.ContainerService.UpdateVehicle: %w", err)
	}
	return updated, nil
}

// List returns the scope's containers in display order with their computed
// numbers, labels and occupants.
func (s *ContainerService) List(ctx context.Context, scope domain.Scope) ([]ContainerView, error) {
	if _, err := loadScope(ctx, s.tours, scope); err != nil {
		return nil, fmt.Errorf("service.ContainerService.List: %w", err)
	}
	snap, err := loadSnapshot(ctx, s.containers, s.assignments, scope)
	if err != nil {
		return nil, fmt.Errorf("service.ContainerService.List: %w", err)
	}
	_, names, err := travelerNames(ctx, s.travelers, scope.TourID)
	if err != nil {
		return nil, fmt.Errorf("service.ContainerService.List: %w", err)
	}
	return buildViews(snap, names), nil
}

// Summary totals the rooms of one night.
func (s *ContainerService) Summary(ctx context.Context, tourID uuid.UUID, night int) (NightSummary, error) {
	scope := domain.RoomScope(tourID, night)
	tour, err := loadScope(ctx, s.tours, scope)
	if err != nil {
		return NightSummary{}, fmt.Errorf("service.ContainerService.Summary: %w", err)
	}
	snap, err := loadSnapshot(ctx, s.containers, s.assignments, scope)
	if err != nil {
		return NightSummary{}, fmt.Errorf("service.ContainerService.Summary: %w", err)
	}
	travelers, err := s.travelers.ListByTour(ctx, tourID)
	if err != nil {
		return NightSummary{}, fmt.Errorf("service.ContainerService.Summary: %w", err)
	}

	sum := NightSummary{
		Night:      night,
		Date:       tour.NightDate(night),
		Rooms:      len(snap.Containers),
		Assigned:   len(snap.Assignments),
		Unassigned: len(allocation.Unassigned(travelers, snap.Assignments)),
	}
	for _, c := range snap.Containers {
		sum.Capacity += c.Capacity
	}
	return sum, nil
}

func loadSnapshot(ctx context.Context, containers repo.ContainerRepo, assignments repo.AssignmentRepo, scope domain.Scope) (allocation.Snapshot, error) {
	cs, err := containers.ListByScope(ctx, scope)
	if err != nil {
		return allocation.Snapshot{}, err
	}
	as, err := assignments.ListByScope(ctx, scope)
	if err != nil {
		return allocation.Snapshot{}, err
	}
	return allocation.Snapshot{Scope: scope, Containers: cs, Assignments: as}, nil
}

func buildViews(snap allocation.Snapshot, names map[uuid.UUID]string) []ContainerView {
	numbers := allocation.Number(snap.Containers)
	occupants := make(map[uuid.UUID][]Occupant)
	for _, a := range snap.Assignments {
		occupants[a.ContainerID] = append(occupants[a.ContainerID], Occupant{
			AssignmentID: a.ID,
			TravelerID:   a.TravelerID,
			DisplayName:  names[a.TravelerID],
		})
	}

	ordered := snap.Ordered()
	views := make([]ContainerView, len(ordered))
	for i, c := range ordered {
		occ := occupants[c.ID]
		if occ == nil {
			occ = []Occupant{}
		}
		n := numbers[c.ID]
		views[i] = ContainerView{
			Container:   c,
			Number:      n.Number,
			Label:       n.Label,
			OptionLabel: allocation.OptionLabel(n.Label, c.Capacity, len(occ)),
			Occupied:    len(occ),
			Remaining:   max(c.Capacity-len(occ), 0),
			Full:        len(occ) >= c.Capacity,
			Occupants:   occ,
		}
	}
	return views
}
