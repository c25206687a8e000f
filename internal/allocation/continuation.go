package allocation

import (
	"slices"
	"strings"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// ConfigLine is one row of a night's room configuration: how many containers
// of a given label and type the night holds.
type ConfigLine struct {
	VariantLabel string
	Type         string
	Capacity     int
	Count        int
}

// NightConfig describes a night's room set without identities or occupants.
// Night is the night the configuration was actually read from, which differs
// from the requested night when continuation flags were followed.
type NightConfig struct {
	Night int
	Lines []ConfigLine
}

// Total returns the number of containers described by the config.
func (c NightConfig) Total() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Count
	}
	return n
}

// ResolveNight follows "same as previous night" flags from night n back to
// the first night that has its own room set. The walk is an explicit loop
// over a strictly decreasing index, bounded by maxNights iterations, so
// malformed flag data cannot make it spin. Night 1 is always independent.
func ResolveNight(n int, continued func(night int) bool, maxNights int) int {
	cur := n
	for steps := 0; cur > 1 && steps < maxNights && continued(cur); steps++ {
		cur--
	}
	return cur
}

// ConfigOf summarises containers into config lines keyed by
// (label, type, capacity), in order of first appearance by display order.
func ConfigOf(night int, containers []domain.Container) NightConfig {
	cfg := NightConfig{Night: night}
	for _, c := range SortByDisplayOrder(containers) {
		label := strings.TrimSpace(c.VariantLabel)
		i := slices.IndexFunc(cfg.Lines, func(l ConfigLine) bool {
			return l.VariantLabel == label && l.Type == c.Type && l.Capacity == c.Capacity
		})
		if i < 0 {
			cfg.Lines = append(cfg.Lines, ConfigLine{VariantLabel: label, Type: c.Type, Capacity: c.Capacity})
			i = len(cfg.Lines) - 1
		}
		cfg.Lines[i].Count++
	}
	return cfg
}

// CopyForNight materialises source containers into the target room scope.
// The copies keep label, type and capacity, get fresh display orders
// 0..k-1 following the source's order, and carry no id: the store assigns one.
func CopyForNight(source []domain.Container, target domain.Scope) []domain.Container {
	ordered := SortByDisplayOrder(source)
	out := make([]domain.Container, len(ordered))
	for i, c := range ordered {
		out[i] = domain.Container{
			TourID:       target.TourID,
			Kind:         domain.KindRoom,
			Night:        target.Night,
			VariantLabel: c.VariantLabel,
			Type:         c.Type,
			Capacity:     c.Capacity,
			DisplayOrder: i,
		}
	}
	return out
}

// PlanRegeneration builds the container set for a bulk room regeneration:
// counts are laid out in the fixed type order double, triple, single, quad,
// with display orders from 0. Types with a non-positive count are skipped.
func PlanRegeneration(scope domain.Scope, label string, counts map[domain.RoomType]int) []domain.Container {
	var out []domain.Container
	for _, rt := range domain.RegenerateOrder {
		for range counts[rt] {
			out = append(out, domain.Container{
				TourID:       scope.TourID,
				Kind:         domain.KindRoom,
				Night:        scope.Night,
				VariantLabel: strings.TrimSpace(label),
				Type:         string(rt),
				Capacity:     rt.Capacity(),
				DisplayOrder: len(out),
			})
		}
	}
	return out
}
