package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/repo"
)

// loadScope fetches the scope's tour and checks that the scope exists on it:
// rooms need a night in 1..N, vehicles the tour-wide night 0.
func loadScope(ctx context.Context, tours repo.TourRepo, scope domain.Scope) (domain.Tour, error) {
	tour, err := tours.GetByID(ctx, scope.TourID)
	if err != nil {
		return domain.Tour{}, err
	}
	switch scope.Kind {
	case domain.KindRoom:
		if !tour.ValidNight(scope.Night) {
			return domain.Tour{}, fmt.Errorf("%w: night %d is outside 1..%d", domain.ErrValidation, scope.Night, tour.Nights())
		}
	case domain.KindVehicle:
		if scope.Night != 0 {
			return domain.Tour{}, fmt.Errorf("%w: vehicles are not scoped to a night", domain.ErrValidation)
		}
	default:
		return domain.Tour{}, fmt.Errorf("%w: unknown container kind %q", domain.ErrValidation, scope.Kind)
	}
	return tour, nil
}

// travelerNames indexes the tour roster by id.
func travelerNames(ctx context.Context, travelers repo.TravelerRepo, tourID uuid.UUID) ([]domain.Traveler, map[uuid.UUID]string, error) {
	list, err := travelers.ListByTour(ctx, tourID)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[uuid.UUID]string, len(list))
	for _, t := range list {
		names[t.ID] = t.DisplayName
	}
	return list, names, nil
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
