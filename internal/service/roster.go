package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/allocation"
	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/metrics"
	"github.com/pkordes/tour-allocation/internal/repo"
)

// RosterEntry is one line of the grouped roster view.
type RosterEntry struct {
	TravelerID  uuid.UUID
	DisplayName string
	ContainerID *uuid.UUID // nil when unassigned in the scope
	Label       string     // container label, empty when unassigned
}

// RosterView is the tour roster in the operator's order, annotated with the
// container each traveler holds in one scope.
type RosterView struct {
	Scope   domain.Scope
	Entries []RosterEntry
}

// RosterService maintains the manual roster order and its grouped moves.
type RosterService struct {
	tours       repo.TourRepo
	travelers   repo.TravelerRepo
	containers  repo.ContainerRepo
	assignments repo.AssignmentRepo
	roster      repo.RosterRepo
	metrics     *metrics.Metrics
	log         *slog.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(
	tours repo.TourRepo,
	travelers repo.TravelerRepo,
	containers repo.ContainerRepo,
	assignments repo.AssignmentRepo,
	roster repo.RosterRepo,
	m *metrics.Metrics,
	log *slog.Logger,
) *RosterService {
	return &RosterService{
		tours:       tours,
		travelers:   travelers,
		containers:  containers,
		assignments: assignments,
		roster:      roster,
		metrics:     m,
		log:         orDefault(log),
	}
}

// scopeState is everything a roster operation reads before touching the order.
type scopeState struct {
	travelers []domain.Traveler
	names     map[uuid.UUID]string
	snap      allocation.Snapshot
}

func (s *RosterService) load(ctx context.Context, scope domain.Scope) (scopeState, error) {
	if _, err := loadScope(ctx, s.tours, scope); err != nil {
		return scopeState{}, err
	}
	travelers, names, err := travelerNames(ctx, s.travelers, scope.TourID)
	if err != nil {
		return scopeState{}, err
	}
	snap, err := loadSnapshot(ctx, s.containers, s.assignments, scope)
	if err != nil {
		return scopeState{}, err
	}
	return scopeState{travelers: travelers, names: names, snap: snap}, nil
}

// View returns the roster in its saved order for the scope.
func (s *RosterService) View(ctx context.Context, scope domain.Scope) (RosterView, error) {
	st, err := s.load(ctx, scope)
	if err != nil {
		return RosterView{}, fmt.Errorf("service.RosterService.View: %w", err)
	}
	saved, err := s.roster.Get(ctx, scope.TourID)
	if err != nil {
		return RosterView{}, fmt.Errorf("service.RosterService.View: %w", err)
	}
	return st.view(scope, allocation.NormalizeOrder(saved, st.travelers)), nil
}

// Move drops dragged onto target. Travelers sharing dragged's container in
// the scope move with it as one block.
func (s *RosterService) Move(ctx context.Context, scope domain.Scope, dragged, target uuid.UUID) (RosterView, error) {
	st, err := s.load(ctx, scope)
	if err != nil {
		return RosterView{}, fmt.Errorf("service.RosterService.Move: %w", err)
	}
	groupOf := st.snap.GroupOf()
	order, err := s.roster.Update(ctx, scope.TourID, func(current []uuid.UUID) ([]uuid.UUID, error) {
		return allocation.MoveGrouped(allocation.NormalizeOrder(current, st.travelers), groupOf, dragged, target)
	})
	if err != nil {
		return RosterView{}, fmt.Errorf("service.RosterService.Move: %w", err)
	}
	s.metrics.IncRosterOp("move")
	s.log.InfoContext(ctx, "roster moved", "scope", scope.String(), "dragged", dragged, "target", target)
	return st.view(scope, order), nil
}

// Resort regroups the roster by container display order, keeping the
// relative order of travelers within each group.
func (s *RosterService) Resort(ctx context.Context, scope domain.Scope) (RosterView, error) {
	st, err := s.load(ctx, scope)
	if err != nil {
		return RosterView{}, fmt.Errorf("service.RosterService.Resort: %w", err)
	}
	order, err := s.roster.Update(ctx, scope.TourID, func(current []uuid.UUID) ([]uuid.UUID, error) {
		return allocation.Resort(allocation.NormalizeOrder(current, st.travelers), st.snap.Containers, st.snap.Assignments), nil
	})
	if err != nil {
		return RosterView{}, fmt.Errorf("service.RosterService.Resort: %w", err)
	}
	s.metrics.IncRosterOp("resort")
	s.log.InfoContext(ctx, "roster resorted", "scope", scope.String())
	return st.view(scope, order), nil
}

// SyncDisplayOrder renumbers the scope's containers to follow the roster: a
// container comes before another when its first occupant does.
func (s *RosterService) SyncDisplayOrder(ctx context.Context, scope domain.Scope) ([]ContainerView, error) {
	st, err := s.load(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.SyncDisplayOrder: %w", err)
	}
	saved, err := s.roster.Get(ctx, scope.TourID)
	if err != nil {
		return nil, fmt.Errorf("service.RosterService.SyncDisplayOrder: %w", err)
	}
	order := allocation.NormalizeOrder(saved, st.travelers)
	ids := allocation.ContainerOrderFromRoster(order, st.snap.Containers, st.snap.Assignments)

	if err := s.containers.UpdateDisplayOrders(ctx, scope, ids); err != nil {
		return nil, fmt.Errorf("service.RosterService.SyncDisplayOrder: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Container, len(st.snap.Containers))
	for _, c := range st.snap.Containers {
		byID[c.ID] = c
	}
	reordered := make([]domain.Container, 0, len(ids))
	for i, id := range ids {
		c := byID[id]
		c.DisplayOrder = i
		reordered = append(reordered, c)
	}
	st.snap.Containers = reordered

	s.metrics.IncRosterOp("sync")
	s.log.InfoContext(ctx, "container order synced to roster", "scope", scope.String(), "containers", len(ids))
	return buildViews(st.snap, st.names), nil
}

func (st scopeState) view(scope domain.Scope, order []uuid.UUID) RosterView {
	groupOf := st.snap.GroupOf()
	numbers := allocation.Number(st.snap.Containers)

	entries := make([]RosterEntry, len(order))
	for i, id := range order {
		e := RosterEntry{TravelerID: id, DisplayName: st.names[id]}
		if c, ok := groupOf[id]; ok {
			e.ContainerID = &c
			e.Label = numbers[c].Label
		}
		entries[i] = e
	}
	return RosterView{Scope: scope, Entries: entries}
}
