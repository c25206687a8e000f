package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/repo"
)

func roomsFor(scope domain.Scope, types ...domain.RoomType) []domain.Container {
	out := make([]domain.Container, len(types))
	for i, rt := range types {
		out[i] = domain.Container{
			TourID: scope.TourID, Kind: scope.Kind, Night: scope.Night,
			Type: string(rt), Capacity: rt.Capacity(), DisplayOrder: i,
		}
	}
	return out
}

func TestContainerRepo_CreateBatchAndList(t *testing.T) {
	tx := newTestTx(t)
	tour, _ := seedTour(t, tx, 0)
	r := repo.NewContainerRepo(tx)
	ctx := context.Background()
	scope := domain.RoomScope(tour.ID, 1)

	created, err := r.CreateBatch(ctx, roomsFor(scope, domain.RoomDouble, domain.RoomSingle))
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, uuid.Nil, created[0].ID)

	got, err := r.ListByScope(ctx, scope)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "double", got[0].Type)
	assert.Equal(t, domain.KindRoom, got[0].Kind)

	other, err := r.ListByScope(ctx, domain.RoomScope(tour.ID, 2))
	require.NoError(t, err)
	assert.Empty(t, other)

	counts, err := r.CountByTour(ctx, tour.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 2}, counts)
}

func TestContainerRepo_CreateBatch_RejectsZeroCapacity(t *testing.T) {
	tx := newTestTx(t)
	tour, _ := seedTour(t, tx, 0)
	c := roomsFor(domain.RoomScope(tour.ID, 1), domain.RoomDouble)
	c[0].Capacity = 0

	_, err := repo.NewContainerRepo(tx).CreateBatch(context.Background(), c)

	assert.Error(t, err)
}

func TestContainerRepo_DeleteCascadesAssignments(t *testing.T) {
	tx := newTestTx(t)
	tour, travelers := seedTour(t, tx, 1)
	ctx := context.Background()
	containers := repo.NewContainerRepo(tx)
	assignments := repo.NewAssignmentRepo(tx)

	created, err := containers.CreateBatch(ctx, roomsFor(domain.RoomScope(tour.ID, 1), domain.RoomDouble))
	require.NoError(t, err)
	a, err := assignments.Create(ctx, domain.Assignment{ContainerID: created[0].ID, TravelerID: travelers[0].ID}, nil)
	require.NoError(t, err)

	require.NoError(t, containers.Delete(ctx, created[0].ID))

	_, err = assignments.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, containers.Delete(ctx, created[0].ID), domain.ErrNotFound)
}

func TestContainerRepo_ReplaceScope(t *testing.T) {
	tx := newTestTx(t)
	tour, travelers := seedTour(t, tx, 1)
	ctx := context.Background()
	r := repo.NewContainerRepo(tx)
	scope := domain.RoomScope(tour.ID, 2)

	old, err := r.CreateBatch(ctx, roomsFor(scope, domain.RoomSingle))
	require.NoError(t, err)
	_, err = repo.NewAssignmentRepo(tx).Create(ctx, domain.Assignment{ContainerID: old[0].ID, TravelerID: travelers[0].ID}, nil)
	require.NoError(t, err)

	t.Run("guard rejects and nothing changes", func(t *testing.T) {
		reject := errors.New("occupied")
		_, err := r.ReplaceScope(ctx, scope, roomsFor(scope, domain.RoomQuad), func(existing []domain.Container, held []domain.Assignment) error {
			assert.Len(t, existing, 1)
			assert.Len(t, held, 1)
			return reject
		})
		assert.ErrorIs(t, err, reject)

		got, err := r.ListByScope(ctx, scope)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, old[0].ID, got[0].ID)
	})

	t.Run("replaces the scope", func(t *testing.T) {
		created, err := r.ReplaceScope(ctx, scope, roomsFor(scope, domain.RoomDouble, domain.RoomTriple), nil)
		require.NoError(t, err)
		require.Len(t, created, 2)

		got, err := r.ListByScope(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{created[0].ID, created[1].ID}, []uuid.UUID{got[0].ID, got[1].ID})

		held, err := repo.NewAssignmentRepo(tx).ListByScope(ctx, scope)
		require.NoError(t, err)
		assert.Empty(t, held, "assignments of replaced rooms are gone")
	})
}

func TestContainerRepo_UpdateVehicle(t *testing.T) {
	tx := newTestTx(t)
	tour, _ := seedTour(t, tx, 0)
	ctx := context.Background()
	r := repo.NewContainerRepo(tx)

	created, err := r.CreateBatch(ctx, []domain.Container{{
		TourID: tour.ID, Kind: domain.KindVehicle, VariantLabel: "Coach",
		Type: string(domain.VehicleLargeBus), Capacity: 45,
	}})
	require.NoError(t, err)

	v := created[0]
	v.VariantLabel = "Coach A"
	v.Capacity = 40
	v.DriverName = "Rui"
	v.LicensePlate = "AA-00-BB"
	got, err := r.UpdateVehicle(ctx, v)

	require.NoError(t, err)
	assert.Equal(t, "Coach A", got.VariantLabel)
	assert.Equal(t, 40, got.Capacity)
	assert.Equal(t, "Rui", got.DriverName)
	assert.Equal(t, "AA-00-BB", got.LicensePlate)

	rooms, err := r.CreateBatch(ctx, roomsFor(domain.RoomScope(tour.ID, 1), domain.RoomDouble))
	require.NoError(t, err)
	_, err = r.UpdateVehicle(ctx, rooms[0])
	assert.ErrorIs(t, err, domain.ErrNotFound, "rooms are not editable as vehicles")
}

func TestContainerRepo_UpdateDisplayOrders(t *testing.T) {
	tx := newTestTx(t)
	tour, _ := seedTour(t, tx, 0)
	ctx := context.Background()
	r := repo.NewContainerRepo(tx)
	scope := domain.RoomScope(tour.ID, 1)

	created, err := r.CreateBatch(ctx, roomsFor(scope, domain.RoomSingle, domain.RoomDouble, domain.RoomTriple))
	require.NoError(t, err)

	want := []uuid.UUID{created[2].ID, created[0].ID, created[1].ID}
	require.NoError(t, r.UpdateDisplayOrders(ctx, scope, want))

	got, err := r.ListByScope(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, want, []uuid.UUID{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, 0, got[0].DisplayOrder)
}
