// Package allocation holds the pure algorithms of the room and vehicle
// allocation engine: occupancy and assignment checks, container numbering,
// continuation resolution and grouped roster reordering.
//
// Nothing in this package performs I/O. Every function works on an
// in-memory snapshot loaded by the service layer and returns a new value,
// so the rules can be unit-tested without a database.
package allocation

import (
	"cmp"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// Snapshot is the state of one scope at the time it was read: its containers
// and the assignments that reference them.
type Snapshot struct {
	Scope       domain.Scope
	Containers  []domain.Container
	Assignments []domain.Assignment
}

// GroupOf maps every assigned traveler to the container they hold in scope.
func (s Snapshot) GroupOf() map[uuid.UUID]uuid.UUID {
	return GroupOf(s.Assignments)
}

// Ordered returns the snapshot's containers sorted by display order.
func (s Snapshot) Ordered() []domain.Container {
	return SortByDisplayOrder(s.Containers)
}

// Occupancy counts assignments per container id.
func Occupancy(assignments []domain.Assignment) map[uuid.UUID]int {
	occ := make(map[uuid.UUID]int, len(assignments))
	for _, a := range assignments {
		occ[a.ContainerID]++
	}
	return occ
}

// GroupOf maps traveler id to container id.
func GroupOf(assignments []domain.Assignment) map[uuid.UUID]uuid.UUID {
	groups := make(map[uuid.UUID]uuid.UUID, len(assignments))
	for _, a := range assignments {
		groups[a.TravelerID] = a.ContainerID
	}
	return groups
}

// SortByDisplayOrder returns a copy of containers ordered by display order.
// Ties are broken by id so the result is deterministic.
func SortByDisplayOrder(containers []domain.Container) []domain.Container {
	out := slices.Clone(containers)
	slices.SortStableFunc(out, func(a, b domain.Container) int {
		if c := cmp.Compare(a.DisplayOrder, b.DisplayOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

// NextDisplayOrder returns the display order a new container appended to the
// scope should get: one past the current maximum, or 0 for an empty scope.
func NextDisplayOrder(containers []domain.Container) int {
	if len(containers) == 0 {
		return 0
	}
	maxOrder := containers[0].DisplayOrder
	for _, c := range containers[1:] {
		maxOrder = max(maxOrder, c.DisplayOrder)
	}
	return maxOrder + 1
}
