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

// ContainerRepo persists rooms and vehicles. Occupancy is never stored here;
// callers derive it from AssignmentRepo.
type ContainerRepo interface {
	// CreateBatch inserts all containers in one transaction and returns them
	// with ids and timestamps populated, in input order.
	CreateBatch(ctx context.Context, containers []domain.Container) ([]domain.Container, error)

	// GetByID returns domain.ErrNotFound if the container does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Container, error)

	// ListByScope returns the scope's containers ordered by display order, then id.
	ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Container, error)

	// ListByTour returns every container of the given kind on the tour,
	// ordered by night then display order.
	ListByTour(ctx context.Context, tourID uuid.UUID, kind domain.Kind) ([]domain.Container, error)

	// CountByTour returns the number of containers per night for rooms
	// (vehicles are counted under night 0).
	CountByTour(ctx context.Context, tourID uuid.UUID) (map[int]int, error)

	// Delete removes a container; its assignments are removed by cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// ReplaceScope locks the scope's containers, runs guard against them and
	// their assignments, then deletes them and inserts replacement, all in one
	// transaction. If guard fails its error is returned (wrapped) and nothing
	// is written.
	ReplaceScope(ctx context.Context, scope domain.Scope, replacement []domain.Container, guard domain.ReplaceGuard) ([]domain.Container, error)

	// UpdateVehicle overwrites the editable vehicle fields.
	UpdateVehicle(ctx context.Context, c domain.Container) (domain.Container, error)

	// UpdateDisplayOrders sets display_order = index for each id, in one
	// transaction. Ids outside scope are ignored.
	UpdateDisplayOrders(ctx context.Context, scope domain.Scope, ids []uuid.UUID) error
}

type pgContainerRepo struct {
	db db
}

// NewContainerRepo constructs a ContainerRepo backed by the provided db connection.
func NewContainerRepo(db db) ContainerRepo {
	return &pgContainerRepo{db: db}
}

const containerColumns = `id, tour_id, kind, night, variant_label, container_type, capacity,
	display_order, driver_name, driver_phone, license_plate, created_at`

const insertContainer = `
	INSERT INTO containers (tour_id, kind, night, variant_label, container_type, capacity,
	                        display_order, driver_name, driver_phone, license_plate)
	VALUES (@tour_id, @kind, @night, @variant_label, @container_type, @capacity,
	        @display_order, @driver_name, @driver_phone, @license_plate)
	RETURNING ` + containerColumns

func containerArgs(c domain.Container) pgx.NamedArgs {
	return pgx.NamedArgs{
		"tour_id":        c.TourID,
		"kind":           string(c.Kind),
		"night":          c.Night,
		"variant_label":  c.VariantLabel,
		"container_type": c.Type,
		"capacity":       c.Capacity,
		"display_order":  c.DisplayOrder,
		"driver_name":    c.DriverName,
		"driver_phone":   c.DriverPhone,
		"license_plate":  c.LicensePlate,
	}
}

func (r *pgContainerRepo) CreateBatch(ctx context.Context, containers []domain.Container) ([]domain.Container, error) {
	if len(containers) == 0 {
		return []domain.Container{}, nil
	}
	var out []domain.Container
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		out, err = insertContainers(ctx, tx, containers)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ContainerRepo.CreateBatch: %w", err)
	}
	return out, nil
}

func insertContainers(ctx context.Context, tx pgx.Tx, containers []domain.Container) ([]domain.Container, error) {
	out := make([]domain.Container, 0, len(containers))
	for _, c := range containers {
		got, err := scanContainer(tx.QueryRow(ctx, insertContainer, containerArgs(c)))
		if err != nil {
			return nil, fmt.Errorf("insert: %w", err)
		}
		out = append(out, got)
	}
	return out, nil
}

func (r *pgContainerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Container, error) {
	q := `SELECT ` + containerColumns + ` FROM containers WHERE id = @id`

	got, err := scanContainer(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Container{}, fmt.Errorf("repo.ContainerRepo.GetByID: %w", err)
	}
	return got, nil
}

func (r *pgContainerRepo) ListByScope(ctx context.Context, scope domain.Scope) ([]domain.Container, error) {
	q := `SELECT ` + containerColumns + `
		FROM containers
		WHERE tour_id = @tour_id AND kind = @kind AND night = @night
		ORDER BY display_order, id`

	out, err := collectContainers(ctx, r.db, q, scopeArgs(scope))
	if err != nil {
		return nil, fmt.Errorf("repo.ContainerRepo.ListByScope: %w", err)
	}
	return out, nil
}

func (r *pgContainerRepo) ListByTour(ctx context.Context, tourID uuid.UUID, kind domain.Kind) ([]domain.Container, error) {
	q := `SELECT ` + containerColumns + `
		FROM containers
		WHERE tour_id = @tour_id AND kind = @kind
		ORDER BY night, display_order, id`

	out, err := collectContainers(ctx, r.db, q, pgx.NamedArgs{"tour_id": tourID, "kind": string(kind)})
	if err != nil {
		return nil, fmt.Errorf("repo.ContainerRepo.ListByTour: %w", err)
	}
	return out, nil
}

func (r *pgContainerRepo) CountByTour(ctx context.Context, tourID uuid.UUID) (map[int]int, error) {
	const q = `
		SELECT night, count(*)
		FROM containers
		WHERE tour_id = @tour_id
		GROUP BY night`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tour_id": tourID})
	if err != nil {
		return nil, fmt.Errorf("repo.ContainerRepo.CountByTour: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var night, n int
		if err := rows.Scan(&night, &n); err != nil {
			return nil, fmt.Errorf("repo.ContainerRepo.CountByTour: scan: %w", err)
		}
		counts[night] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ContainerRepo.CountByTour: rows: %w", err)
	}
	return counts, nil
}

func (r *pgContainerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM containers WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ContainerRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ContainerRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgContainerRepo) ReplaceScope(ctx context.Context, scope domain.Scope, replacement []domain.Container, guard domain.ReplaceGuard) ([]domain.Container, error) {
	var out []domain.Container
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		lock := `SELECT ` + containerColumns + `
			FROM containers
			WHERE tour_id = @tour_id AND kind = @kind AND night = @night
			ORDER BY display_order, id
			FOR UPDATE`
		existing, err := collectContainers(ctx, tx, lock, scopeArgs(scope))
		if err != nil {
			return fmt.Errorf("lock scope: %w", err)
		}

		if guard != nil {
			held, err := listAssignmentsByScope(ctx, tx, scope)
			if err != nil {
				return fmt.Errorf("load assignments: %w", err)
			}
			if err := guard(existing, held); err != nil {
				return err
			}
		}

		const del = `DELETE FROM containers WHERE tour_id = @tour_id AND kind = @kind AND night = @night`
		if _, err := tx.Exec(ctx, del, scopeArgs(scope)); err != nil {
			return fmt.Errorf("delete scope: %w", err)
		}

		out, err = insertContainers(ctx, tx, replacement)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("repo.ContainerRepo.ReplaceScope: %w", err)
	}
	return out, nil
}

func (r *pgContainerRepo) UpdateVehicle(ctx context.Context, c domain.Container) (domain.Container, error) {
	q := `
		UPDATE containers
		SET variant_label  = @variant_label,
		    container_type = @container_type,
		    capacity       = @capacity,
		    driver_name    = @driver_name,
		    driver_phone   = @driver_phone,
		    license_plate  = @license_plate
		WHERE id = @id AND kind = 'vehicle'
		RETURNING ` + containerColumns

	args := containerArgs(c)
	args["id"] = c.ID

	got, err := scanContainer(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Container{}, fmt.Errorf("repo.ContainerRepo.UpdateVehicle: %w", err)
	}
	return got, nil
}

func (r *pgContainerRepo) UpdateDisplayOrders(ctx context.Context, scope domain.Scope, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	const q = `
		UPDATE containers
		SET display_order = @display_order
		WHERE id = @id AND tour_id = @tour_id AND kind = @kind AND night = @night`

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i, id := range ids {
			args := scopeArgs(scope)
			args["id"] = id
			args["display_order"] = i
			batch.Queue(q, args)
		}
		br := tx.SendBatch(ctx, batch)
		for range ids {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return err
			}
		}
		return br.Close()
	})
	if err != nil {
		return fmt.Errorf("repo.ContainerRepo.UpdateDisplayOrders: %w", err)
	}
	return nil
}

func scopeArgs(s domain.Scope) pgx.NamedArgs {
	return pgx.NamedArgs{"tour_id": s.TourID, "kind": string(s.Kind), "night": s.Night}
}

func collectContainers(ctx context.Context, d querier, q string, args pgx.NamedArgs) ([]domain.Container, error) {
	rows, err := d.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Container{}
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanContainer(s scanner) (domain.Container, error) {
	var (
		c      domain.Container
		id     pgtype.UUID
		tourID pgtype.UUID
		kind   string
	)
	err := s.Scan(&id, &tourID, &kind, &c.Night, &c.VariantLabel, &c.Type, &c.Capacity,
		&c.DisplayOrder, &c.DriverName, &c.DriverPhone, &c.LicensePlate, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Container{}, domain.ErrNotFound
		}
		return domain.Container{}, err
	}
	c.ID = uuid.UUID(id.Bytes)
	c.TourID = uuid.UUID(tourID.Bytes)
	c.Kind = domain.Kind(kind)
	return c, nil
}
