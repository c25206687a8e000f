package allocation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// CheckAssign validates placing travelerID into target given every assignment
// currently held in target's scope. Checks run in a fixed order:
//  1. the container is not full (ErrContainerFull);
//  2. the traveler holds nothing else in the scope (ErrAlreadyAssigned).
func CheckAssign(target domain.Container, travelerID uuid.UUID, scope []domain.Assignment) error {
	occupied := 0
	for _, a := range scope {
		if a.ContainerID == target.ID {
			occupied++
		}
	}
	if occupied >= target.Capacity {
		return fmt.Errorf("%w: %d/%d", domain.ErrContainerFull, occupied, target.Capacity)
	}
	for _, a := range scope {
		if a.TravelerID == travelerID {
			return fmt.Errorf("%w: traveler %s holds container %s", domain.ErrAlreadyAssigned, travelerID, a.ContainerID)
		}
	}
	return nil
}

// Unassigned returns the travelers without an assignment in scope, in roster
// source order.
func Unassigned(travelers []domain.Traveler, scope []domain.Assignment) []domain.Traveler {
	assigned := GroupOf(scope)
	out := make([]domain.Traveler, 0, len(travelers))
	for _, t := range travelers {
		if _, ok := assigned[t.ID]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// HasOccupants reports whether any assignment references one of containers.
func HasOccupants(containers []domain.Container, scope []domain.Assignment) bool {
	occ := Occupancy(scope)
	for _, c := range containers {
		if occ[c.ID] > 0 {
			return true
		}
	}
	return false
}
