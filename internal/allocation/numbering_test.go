package allocation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/tour-allocation/internal/allocation"
	"github.com/pkordes/tour-allocation/internal/domain"
)

func room(label string, rt domain.RoomType, order int) domain.Container {
	return domain.Container{
		ID:           uuid.New(),
		Kind:         domain.KindRoom,
		Night:        1,
		VariantLabel: label,
		Type:         string(rt),
		Capacity:     rt.Capacity(),
		DisplayOrder: order,
	}
}

func TestNumber_PerLabelAndType(t *testing.T) {
	d1 := room("Ocean-view", domain.RoomDouble, 0)
	t1 := room("Ocean-view", domain.RoomTriple, 1)
	d2 := room("Ocean-view", domain.RoomDouble, 2)
	plain := room("", domain.RoomDouble, 3)

	got := allocation.Number([]domain.Container{d2, plain, t1, d1})

	assert.Equal(t, allocation.Numbered{Number: 1, Label: "Ocean-view Double 1"}, got[d1.ID])
	assert.Equal(t, allocation.Numbered{Number: 2, Label: "Ocean-view Double 2"}, got[d2.ID])
	assert.Equal(t, allocation.Numbered{Number: 1, Label: "Ocean-view Triple 1"}, got[t1.ID])
	assert.Equal(t, allocation.Numbered{Number: 1, Label: "Double 1"}, got[plain.ID])
}

func TestNumber_Deterministic(t *testing.T) {
	list := []domain.Container{
		room("A", domain.RoomSingle, 0),
		room("A", domain.RoomSingle, 0), // same display order: tie broken by id
		room("A", domain.RoomSingle, 1),
	}

	assert.Equal(t, allocation.Number(list), allocation.Number(list))
}

func TestNumber_DeletingRenumbersWithoutGaps(t *testing.T) {
	r1 := room("", domain.RoomDouble, 0)
	r2 := room("", domain.RoomDouble, 1)
	r3 := room("", domain.RoomDouble, 2)

	got := allocation.Number([]domain.Container{r1, r3})

	assert.Equal(t, 1, got[r1.ID].Number)
	assert.Equal(t, 2, got[r3.ID].Number)
	assert.Equal(t, "Double 2", got[r3.ID].Label)
	assert.NotContains(t, got, r2.ID)
}

func TestNumber_Empty(t *testing.T) {
	assert.Empty(t, allocation.Number(nil))
}

func TestLabel_Vehicle(t *testing.T) {
	assert.Equal(t, "Blue Line Large Bus 1", allocation.Label(domain.KindVehicle, "Blue Line", "large_bus", 1))
	assert.Equal(t, "limo 3", allocation.Label(domain.KindVehicle, " ", "limo", 3))
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "Double 1 (1 left)", allocation.OptionLabel("Double 1", 2, 1))
	assert.Equal(t, "Double 1 (full)", allocation.OptionLabel("Double 1", 2, 2))
	assert.Equal(t, "Double 1 (full)", allocation.OptionLabel("Double 1", 2, 3))
}
