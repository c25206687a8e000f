package allocation

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// MoveGrouped applies a single drag-and-drop of dragged onto target to the
// roster order. Travelers sharing the dragged traveler's container (per
// groupOf) move with it as one contiguous block and keep their relative
// order. An ungrouped traveler, or one alone in its container, moves on its
// own like a plain list reorder. Dropping an item onto itself is a no-op.
//
// A landing position that falls between two members of another group is
// pushed to the edge of that group's block (past it when moving down,
// before it when moving up), so a drag never splits an unrelated group.
//
// The returned slice is always new; order is not modified.
func MoveGrouped(order []uuid.UUID, groupOf map[uuid.UUID]uuid.UUID, dragged, target uuid.UUID) ([]uuid.UUID, error) {
	if dragged == target {
		return slices.Clone(order), nil
	}
	from := slices.Index(order, dragged)
	if from < 0 {
		return nil, fmt.Errorf("%w: traveler %s is not in the roster", domain.ErrValidation, dragged)
	}
	to := slices.Index(order, target)
	if to < 0 {
		return nil, fmt.Errorf("%w: traveler %s is not in the roster", domain.ErrValidation, target)
	}

	container, grouped := groupOf[dragged]
	if !grouped {
		return moveOne(order, groupOf, from, to), nil
	}

	inGroup := make(map[uuid.UUID]bool)
	var group []uuid.UUID
	for _, id := range order {
		if c, ok := groupOf[id]; ok && c == container {
			inGroup[id] = true
			group = append(group, id)
		}
	}
	if len(group) == 1 {
		return moveOne(order, groupOf, from, to), nil
	}

	remaining := make([]uuid.UUID, 0, len(order)-len(group))
	for _, id := range order {
		if !inGroup[id] {
			remaining = append(remaining, id)
		}
	}

	var insert int
	if inGroup[target] {
		// Dropped onto a groupmate: anchor on the first non-member after it.
		insert = len(remaining)
		for _, id := range order[to+1:] {
			if !inGroup[id] {
				insert = slices.Index(remaining, id)
				break
			}
		}
	} else {
		insert = slices.Index(remaining, target)
	}

	// Moving down lands the block after the anchor instead of before it.
	down := to > slices.Index(order, group[0])
	if down {
		insert++
	}
	insert = snapToBlockEdge(remaining, groupOf, min(insert, len(remaining)), down)

	return slices.Concat(remaining[:insert], group, remaining[insert:]), nil
}

// moveOne removes the item at from and reinserts it at to.
func moveOne(order []uuid.UUID, groupOf map[uuid.UUID]uuid.UUID, from, to int) []uuid.UUID {
	out := slices.Clone(order)
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, snapToBlockEdge(out, groupOf, to, to > from), item)
}

// snapToBlockEdge moves an insertion index that would land inside a block of
// groupmates to the block's far edge in the direction of travel.
func snapToBlockEdge(list []uuid.UUID, groupOf map[uuid.UUID]uuid.UUID, insert int, down bool) int {
	if insert <= 0 || insert >= len(list) {
		return insert
	}
	g, ok := groupOf[list[insert-1]]
	if !ok {
		return insert
	}
	if next, ok := groupOf[list[insert]]; !ok || next != g {
		return insert
	}
	if down {
		for insert < len(list) && sameGroup(groupOf, list[insert], g) {
			insert++
		}
		return insert
	}
	for insert > 0 && sameGroup(groupOf, list[insert-1], g) {
		insert--
	}
	return insert
}

func sameGroup(groupOf map[uuid.UUID]uuid.UUID, id, g uuid.UUID) bool {
	c, ok := groupOf[id]
	return ok && c == g
}

// Resort rebuilds the roster after assignments change: for each container in
// display order its occupants follow in their prior relative roster order,
// then every unassigned traveler follows in prior relative order.
// Occupants missing from order are ignored so the result stays a permutation.
func Resort(order []uuid.UUID, containers []domain.Container, scope []domain.Assignment) []uuid.UUID {
	pos := positions(order)
	byContainer := make(map[uuid.UUID][]uuid.UUID)
	for _, a := range scope {
		if _, ok := pos[a.TravelerID]; ok {
			byContainer[a.ContainerID] = append(byContainer[a.ContainerID], a.TravelerID)
		}
	}

	out := make([]uuid.UUID, 0, len(order))
	placed := make(map[uuid.UUID]bool, len(order))
	for _, c := range SortByDisplayOrder(containers) {
		occupants := byContainer[c.ID]
		slices.SortFunc(occupants, func(a, b uuid.UUID) int { return pos[a] - pos[b] })
		for _, id := range occupants {
			if !placed[id] {
				placed[id] = true
				out = append(out, id)
			}
		}
	}
	for _, id := range order {
		if !placed[id] {
			out = append(out, id)
		}
	}
	return out
}

// ContainerOrderFromRoster returns container ids in the order their first
// occupant appears in the roster. Containers without an occupant in the
// roster keep their previous relative order after the occupied ones.
func ContainerOrderFromRoster(order []uuid.UUID, containers []domain.Container, scope []domain.Assignment) []uuid.UUID {
	groupOf := GroupOf(scope)
	known := make(map[uuid.UUID]bool, len(containers))
	for _, c := range containers {
		known[c.ID] = true
	}

	out := make([]uuid.UUID, 0, len(containers))
	seen := make(map[uuid.UUID]bool, len(containers))
	for _, id := range order {
		c, ok := groupOf[id]
		if !ok || !known[c] || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	for _, c := range SortByDisplayOrder(containers) {
		if !seen[c.ID] {
			out = append(out, c.ID)
		}
	}
	return out
}

// NormalizeOrder reconciles a saved roster order with the live traveler
// list: unknown and duplicate ids are dropped, and travelers missing from
// the saved order are appended in roster source order.
func NormalizeOrder(saved []uuid.UUID, travelers []domain.Traveler) []uuid.UUID {
	live := make(map[uuid.UUID]bool, len(travelers))
	for _, t := range travelers {
		live[t.ID] = true
	}
	out := make([]uuid.UUID, 0, len(travelers))
	seen := make(map[uuid.UUID]bool, len(travelers))
	for _, id := range saved {
		if live[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, t := range travelers {
		if !seen[t.ID] {
			seen[t.ID] = true
			out = append(out, t.ID)
		}
	}
	return out
}

func positions(order []uuid.UUID) map[uuid.UUID]int {
	pos := make(map[uuid.UUID]int, len(order))
	for i, id := range order {
		if _, dup := pos[id]; !dup {
			pos[id] = i
		}
	}
	return pos
}
