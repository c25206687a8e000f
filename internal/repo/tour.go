// Package repo contains all database access logic for the tour allocation API.
// Each resource has its own file with an interface and a store implementation
// (Postgres for tours, travelers, containers, assignments and nights; Redis for
// the roster order). No business logic lives here, only queries and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test;
// Begin on a pgx.Tx opens a savepoint, so repos that need their own
// transaction still work inside it.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// querier is the read half of db, also satisfied by pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// TourRepo defines the persistence operations for Tours.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TourRepo interface {
	// Create inserts a new tour and returns the persisted record.
	Create(ctx context.Context, tour domain.Tour) (domain.Tour, error)

	// GetByID retrieves a single tour. Returns domain.ErrNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error)

	// List returns all tours ordered by departure_date descending.
	List(ctx context.Context) ([]domain.Tour, error)

	// Update overwrites the mutable fields of an existing tour.
	// Returns domain.ErrNotFound if no tour with that ID exists.
	Update(ctx context.Context, tour domain.Tour) (domain.Tour, error)

	// Delete removes a tour and, by cascade, everything allocated under it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgTourRepo struct {
	db db
}

// NewTourRepo constructs a TourRepo backed by the provided db connection.
func NewTourRepo(db db) TourRepo {
	return &pgTourRepo{db: db}
}

const tourColumns = `id, name, departure_date, return_date, created_at, updated_at`

func (r *pgTourRepo) Create(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	const q = `
		INSERT INTO tours (name, departure_date, return_date)
		VALUES (@name, @departure_date, @return_date)
		RETURNING ` + tourColumns

	args := pgx.NamedArgs{
		"name":           tour.Name,
		"departure_date": tour.DepartureDate,
		"return_date":    tour.ReturnDate, // nil becomes NULL
	}

	result, err := scanTour(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTourRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE id = @id`

	result, err := scanTour(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTourRepo) List(ctx context.Context) ([]domain.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours ORDER BY departure_date DESC, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TourRepo.List: %w", err)
	}
	defer rows.Close()

	var tours []domain.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TourRepo.List: scan: %w", err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TourRepo.List: rows: %w", err)
	}
	return tours, nil
}

func (r *pgTourRepo) Update(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	const q = `
		UPDATE tours
		SET name           = @name,
		    departure_date = @departure_date,
		    return_date    = @return_date,
		    updated_at     = now()
		WHERE id = @id
		RETURNING ` + tourColumns

	args := pgx.NamedArgs{
		"id":             tour.ID,
		"name":           tour.Name,
		"departure_date": tour.DepartureDate,
		"return_date":    tour.ReturnDate,
	}

	result, err := scanTour(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTourRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tours WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TourRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TourRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTour(s scanner) (domain.Tour, error) {
	var (
		t         domain.Tour
		id        pgtype.UUID
		departure pgtype.Date
		ret       pgtype.Date
	)

	if err := s.Scan(&id, &t.Name, &departure, &ret, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tour{}, domain.ErrNotFound
		}
		return domain.Tour{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.DepartureDate = departure.Time
	if ret.Valid {
		rd := ret.Time
		t.ReturnDate = &rd
	}
	return t, nil
}

// withTx runs fn inside a transaction opened on d, committing on success and
// rolling back on any error.
func withTx(ctx context.Context, d db, fn func(tx pgx.Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
