package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// TravelerRepo reads the tour roster. Travelers are imported elsewhere; Create
// exists for that import path and for test fixtures.
type TravelerRepo interface {
	Create(ctx context.Context, t domain.Traveler) (domain.Traveler, error)

	// GetByID returns domain.ErrNotFound if the traveler does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Traveler, error)

	// ListByTour returns every traveler on the tour in roster source order
	// (creation time, then id).
	ListByTour(ctx context.Context, tourID uuid.UUID) ([]domain.Traveler, error)

	// ListPaged returns one page of the roster plus the total count.
	ListPaged(ctx context.Context, tourID uuid.UUID, p domain.PaginationParams) ([]domain.Traveler, int64, error)
}

type pgTravelerRepo struct {
	db db
}

// NewTravelerRepo constructs a TravelerRepo backed by the provided db connection.
func NewTravelerRepo(db db) TravelerRepo {
	return &pgTravelerRepo{db: db}
}

func (r *pgTravelerRepo) Create(ctx context.Context, t domain.Traveler) (domain.Traveler, error) {
	const q = `
		INSERT INTO travelers (tour_id, display_name)
		VALUES (@tour_id, @display_name)
		RETURNING id, tour_id, display_name, created_at`

	got, err := scanTraveler(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"tour_id":      t.TourID,
		"display_name": t.DisplayName,
	}))
	if err != nil {
		return domain.Traveler{}, fmt.Errorf("repo.TravelerRepo.Create: %w", err)
	}
	return got, nil
}

func (r *pgTravelerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Traveler, error) {
	const q = `SELECT id, tour_id, display_name, created_at FROM travelers WHERE id = @id`

	got, err := scanTraveler(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Traveler{}, fmt.Errorf("repo.TravelerRepo.GetByID: %w", err)
	}
	return got, nil
}

func (r *pgTravelerRepo) ListByTour(ctx context.Context, tourID uuid.UUID) ([]domain.Traveler, error) {
	const q = `
		SELECT id, tour_id, display_name, created_at
		FROM travelers
		WHERE tour_id = @tour_id
		ORDER BY created_at, id`

	out, err := r.collect(ctx, q, pgx.NamedArgs{"tour_id": tourID})
	if err != nil {
		return nil, fmt.Errorf("repo.TravelerRepo.ListByTour: %w", err)
	}
	return out, nil
}

func (r *pgTravelerRepo) ListPaged(ctx context.Context, tourID uuid.UUID, p domain.PaginationParams) ([]domain.Traveler, int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM travelers WHERE tour_id = @tour_id`,
		pgx.NamedArgs{"tour_id": tourID}).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TravelerRepo.ListPaged: count: %w", err)
	}

	const q = `
		SELECT id, tour_id, display_name, created_at
		FROM travelers
		WHERE tour_id = @tour_id
		ORDER BY created_at, id
		LIMIT @limit OFFSET @offset`

	out, err := r.collect(ctx, q, pgx.NamedArgs{
		"tour_id": tourID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TravelerRepo.ListPaged: %w", err)
	}
	return out, total, nil
}

func (r *pgTravelerRepo) collect(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Traveler, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Traveler
	for rows.Next() {
		t, err := scanTraveler(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTraveler(s scanner) (domain.Traveler, error) {
	var (
		t      domain.Traveler
		id     pgtype.UUID
		tourID pgtype.UUID
	)
	if err := s.Scan(&id, &tourID, &t.DisplayName, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Traveler{}, domain.ErrNotFound
		}
		return domain.Traveler{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.TourID = uuid.UUID(tourID.Bytes)
	return t, nil
}
