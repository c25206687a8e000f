package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/repo"
	"github.com/pkordes/tour-allocation/testutil"
)

// newTestTx opens a transaction against the test database that is rolled
// back when the test finishes, giving free per-test isolation.
func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})
	return tx
}

// tourFixture returns a five-day tour (four nights).
func tourFixture() domain.Tour {
	dep := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	return domain.Tour{Name: "Lisbon & Porto", DepartureDate: dep, ReturnDate: &ret}
}

// seedTour creates a tour with the given number of travelers.
func seedTour(t *testing.T, tx pgx.Tx, travelers int) (domain.Tour, []domain.Traveler) {
	t.Helper()
	ctx := context.Background()

	tour, err := repo.NewTourRepo(tx).Create(ctx, tourFixture())
	require.NoError(t, err)

	tr := repo.NewTravelerRepo(tx)
	out := make([]domain.Traveler, travelers)
	for i := range out {
		out[i], err = tr.Create(ctx, domain.Traveler{TourID: tour.ID, DisplayName: string(rune('A' + i))})
		require.NoError(t, err)
	}
	return tour, out
}

func TestTourRepo_Create(t *testing.T) {
	r := repo.NewTourRepo(newTestTx(t))
	ctx := context.Background()

	input := tourFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, input.Name, got.Name)
	assert.True(t, got.DepartureDate.Equal(input.DepartureDate))
	require.NotNil(t, got.ReturnDate)
	assert.True(t, got.ReturnDate.Equal(*input.ReturnDate))
	assert.Equal(t, 4, got.Nights())
	assert.False(t, got.CreatedAt.IsZero())
}

func TestTourRepo_Create_NilReturnDate(t *testing.T) {
	r := repo.NewTourRepo(newTestTx(t))

	input := tourFixture()
	input.ReturnDate = nil

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, got.ReturnDate)
	assert.Equal(t, 0, got.Nights())
}

func TestTourRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewTourRepo(newTestTx(t))

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTourRepo_List(t *testing.T) {
	r := repo.NewTourRepo(newTestTx(t))
	ctx := context.Background()

	early := tourFixture()
	early.Name = "Early"
	late := tourFixture()
	late.Name = "Late"
	late.DepartureDate = early.DepartureDate.AddDate(0, 1, 0)
	lateRet := late.DepartureDate.AddDate(0, 0, 3)
	late.ReturnDate = &lateRet

	_, err := r.Create(ctx, early)
	require.NoError(t, err)
	_, err = r.Create(ctx, late)
	require.NoError(t, err)

	tours, err := r.List(ctx)
	require.NoError(t, err)

	var names []string
	for _, tr := range tours {
		names = append(names, tr.Name)
	}
	assert.Less(t, indexOf(names, "Late"), indexOf(names, "Early"), "most recent departure first")
}

func TestTourRepo_Update(t *testing.T) {
	r := repo.NewTourRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, tourFixture())
	require.NoError(t, err)

	created.Name = "Renamed"
	created.ReturnDate = nil
	got, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Nil(t, got.ReturnDate)
}

func TestTourRepo_Update_NotFound(t *testing.T) {
	r := repo.NewTourRepo(newTestTx(t))

	missing := tourFixture()
	missing.ID = uuid.New()
	_, err := r.Update(context.Background(), missing)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTourRepo_Delete(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTourRepo(tx)
	ctx := context.Background()

	tour, _ := seedTour(t, tx, 2)

	require.NoError(t, r.Delete(ctx, tour.ID))

	_, err := r.GetByID(ctx, tour.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	travelers, err := repo.NewTravelerRepo(tx).ListByTour(ctx, tour.ID)
	require.NoError(t, err)
	assert.Empty(t, travelers, "travelers cascade with the tour")
}

func TestTourRepo_Delete_NotFound(t *testing.T) {
	r := repo.NewTourRepo(newTestTx(t))

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTravelerRepo_ListPaged(t *testing.T) {
	tx := newTestTx(t)
	tour, travelers := seedTour(t, tx, 5)

	page, total, err := repo.NewTravelerRepo(tx).ListPaged(context.Background(), tour.ID, domain.PaginationParams{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, travelers[2].ID, page[0].ID)
	assert.Equal(t, travelers[3].ID, page[1].ID)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
