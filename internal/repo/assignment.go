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

// AssignmentRepo persists traveler-to-container links.
type AssignmentRepo interface {
	// Create inserts an assignment of a.TravelerID to a.ContainerID. The
	// container row is locked for the duration of the transaction and guard
	// is evaluated against it and every assignment in its scope before the
	// insert. Kind and Night are taken from the locked container.
	//
	// Returns domain.ErrNotFound if the container does not exist, the guard's
	// error if it rejects the insert, and domain.ErrAlreadyAssigned if a
	// concurrent writer won the scope uniqueness index.
	Create(ctx context.Context, a domain.Assignment, guard domain.AssignGuard) (domain.Assignment, error)

	// GetByID returns domain.ErrNotFound if the assignment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Assignment, error)

	// Delete removes an assignment. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByScope returns every assignment held in the scope.
	ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Assignment, error)

	// ListByContainer returns the container's occupants in assignment order.
	ListByContainer(ctx context.Context, containerID uuid.UUID) ([]domain.Assignment, error)

	// ListByTour returns every assignment of the given kind on the tour.
	ListByTour(ctx context.Context, tourID uuid.UUID, kind domain.Kind) ([]domain.Assignment, error)
}

type pgAssignmentRepo struct {
	db db
}

// NewAssignmentRepo constructs an AssignmentRepo backed by the provided db connection.
func NewAssignmentRepo(db db) AssignmentRepo {
	return &pgAssignmentRepo{db: db}
}

const assignmentColumns = `id, tour_id, container_id, traveler_id, kind, night, created_at`

func (r *pgAssignmentRepo) Create(ctx context.Context, a domain.Assignment, guard domain.AssignGuard) (domain.Assignment, error) {
	var out domain.Assignment
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		lock := `SELECT ` + containerColumns + ` FROM containers WHERE id = @id FOR UPDATE`
		target, err := scanContainer(tx.QueryRow(ctx, lock, pgx.NamedArgs{"id": a.ContainerID}))
		if err != nil {
			return err
		}

		held, err := listAssignmentsByScope(ctx, tx, target.Scope())
		if err != nil {
			return fmt.Errorf("load scope: %w", err)
		}
		if guard != nil {
			if err := guard(target, held); err != nil {
				return err
			}
		}

		const insert = `
			INSERT INTO assignments (tour_id, container_id, traveler_id, kind, night)
			VALUES (@tour_id, @container_id, @traveler_id, @kind, @night)
			RETURNING ` + assignmentColumns
		out, err = scanAssignment(tx.QueryRow(ctx, insert, pgx.NamedArgs{
			"tour_id":      target.TourID,
			"container_id": target.ID,
			"traveler_id":  a.TravelerID,
			"kind":         string(target.Kind),
			"night":        target.Night,
		}))
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: traveler %s in %s", domain.ErrAlreadyAssigned, a.TravelerID, target.Scope())
		}
		return err
	})
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("repo.AssignmentRepo.Create: %w", err)
	}
	return out, nil
}

func (r *pgAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Assignment, error) {
	q := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = @id`

	got, err := scanAssignment(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("repo.AssignmentRepo.GetByID: %w", err)
	}
	return got, nil
}

func (r *pgAssignmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM assignments WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.AssignmentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.AssignmentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgAssignmentRepo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Assignment, error) {
	out, err := listAssignmentsByScope(ctx, r.db, scope)
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByScope: %w", err)
	}
	return out, nil
}

func (r *pgAssignmentRepo) ListByContainer(ctx context.Context, containerID uuid.UUID) ([]domain.Assignment, error) {
	q := `SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE container_id = @container_id
		ORDER BY created_at, id`

	out, err := collectAssignments(ctx, r.db, q, pgx.NamedArgs{"container_id": containerID})
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByContainer: %w", err)
	}
	return out, nil
}

func (r *pgAssignmentRepo) ListByTour(ctx context.Context, tourID uuid.UUID, kind domain.Kind) ([]domain.Assignment, error) {
	q := `SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE tour_id = @tour_id AND kind = @kind
		ORDER BY night, created_at, id`

	out, err := collectAssignments(ctx, r.db, q, pgx.NamedArgs{"tour_id": tourID, "kind": string(kind)})
	if err != nil {
		return nil, fmt.Errorf("repo.AssignmentRepo.ListByTour: %w", err)
	}
	return out, nil
}

func listAssignmentsByScope(ctx context.Context, d querier, scope domain.Scope) ([]domain.Assignment, error) {
	q := `SELECT ` + assignmentColumns + `
		FROM assignments
		WHERE tour_id = @tour_id AND kind = @kind AND night = @night
		ORDER BY created_at, id`
	return collectAssignments(ctx, d, q, scopeArgs(scope))
}

func collectAssignments(ctx context.Context, d querier, q string, args pgx.NamedArgs) ([]domain.Assignment, error) {
	rows, err := d.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssignment(s scanner) (domain.Assignment, error) {
	var (
		a                                 domain.Assignment
		id, tourID, containerID, traveler pgtype.UUID
		kind                              string
	)
	err := s.Scan(&id, &tourID, &containerID, &traveler, &kind, &a.Night, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assignment{}, domain.ErrNotFound
		}
		return domain.Assignment{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.TourID = uuid.UUID(tourID.Bytes)
	a.ContainerID = uuid.UUID(containerID.Bytes)
	a.TravelerID = uuid.UUID(traveler.Bytes)
	a.Kind = domain.Kind(kind)
	return a, nil
}
