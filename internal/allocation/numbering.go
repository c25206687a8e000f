package allocation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// Numbered is the display number and label computed for one container.
type Numbered struct {
	Number int
	Label  string
}

type numberKey struct {
	variant string
	typ     string
}

// Number assigns sequence numbers to containers that share a
// (variant label, type) key, following display order. Numbers start at 1
// and have no gaps: they are recomputed from the current list on every call
// and must never be persisted.
func Number(containers []domain.Container) map[uuid.UUID]Numbered {
	out := make(map[uuid.UUID]Numbered, len(containers))
	counters := make(map[numberKey]int)
	for _, c := range SortByDisplayOrder(containers) {
		key := numberKey{variant: strings.TrimSpace(c.VariantLabel), typ: c.Type}
		counters[key]++
		n := counters[key]
		out[c.ID] = Numbered{Number: n, Label: Label(c.Kind, c.VariantLabel, c.Type, n)}
	}
	return out
}

// Label builds the human label of a container, e.g. "Ocean-view Double 2".
// The variant label is omitted when blank.
func Label(kind domain.Kind, variant, typ string, n int) string {
	parts := make([]string, 0, 3)
	if v := strings.TrimSpace(variant); v != "" {
		parts = append(parts, v)
	}
	parts = append(parts, domain.TypeName(kind, typ), fmt.Sprint(n))
	return strings.Join(parts, " ")
}

// OptionLabel decorates a label with the remaining capacity, the way the
// assignment pickers present a container: "Double 1 (1 left)" or "Double 1 (full)".
func OptionLabel(label string, capacity, occupied int) string {
	remaining := capacity - occupied
	if remaining <= 0 {
		return label + " (full)"
	}
	return fmt.Sprintf("%s (%d left)", label, remaining)
}
