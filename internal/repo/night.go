package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// NightRepo stores the per-night continuation flags. A night without a row
// is independent.
type NightRepo interface {
	// List returns every stored flag for the tour, ordered by night.
	List(ctx context.Context, tourID uuid.UUID) ([]domain.NightState, error)

	// SetContinued upserts the flag for one night.
	SetContinued(ctx context.Context, tourID uuid.UUID, night int, continued bool) error
}

type pgNightRepo struct {
	db db
}

// NewNightRepo constructs a NightRepo backed by the provided db connection.
func NewNightRepo(db db) NightRepo {
	return &pgNightRepo{db: db}
}

func (r *pgNightRepo) List(ctx context.Context, tourID uuid.UUID) ([]domain.NightState, error) {
	const q = `
		SELECT night, continued
		FROM night_settings
		WHERE tour_id = @tour_id
		ORDER BY night`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tour_id": tourID})
	if err != nil {
		return nil, fmt.Errorf("repo.NightRepo.List: %w", err)
	}
	defer rows.Close()

	var out []domain.NightState
	for rows.Next() {
		s := domain.NightState{TourID: tourID}
		if err := rows.Scan(&s.Night, &s.Continued); err != nil {
			return nil, fmt.Errorf("repo.NightRepo.List: scan: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.NightRepo.List: rows: %w", err)
	}
	return out, nil
}

func (r *pgNightRepo) SetContinued(ctx context.Context, tourID uuid.UUID, night int, continued bool) error {
	const q = `
		INSERT INTO night_settings (tour_id, night, continued)
		VALUES (@tour_id, @night, @continued)
		ON CONFLICT (tour_id, night) DO UPDATE SET continued = EXCLUDED.continued`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"tour_id": tourID, "night": night, "continued": continued})
	if err != nil {
		return fmt.Errorf("repo.NightRepo.SetContinued: %w", err)
	}
	return nil
}
