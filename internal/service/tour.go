// Package service contains the business logic of the tour allocation API.
// Services validate inputs, enforce allocation rules by delegating to the pure
// allocation package, and orchestrate repo calls. No SQL or Redis commands
// live here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/repo"
)

// TourService implements tour CRUD and read access to the roster.
type TourService struct {
	tours     repo.TourRepo
	travelers repo.TravelerRepo
	roster    repo.RosterRepo
	log       *slog.Logger
}

// NewTourService constructs a TourService.
func NewTourService(tours repo.TourRepo, travelers repo.TravelerRepo, roster repo.RosterRepo, log *slog.Logger) *TourService {
	return &TourService{tours: tours, travelers: travelers, roster: roster, log: orDefault(log)}
}

// Create validates and persists a new tour.
func (s *TourService) Create(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	if err := validateTour(tour); err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Create: %w", err)
	}
	tour.Name = strings.TrimSpace(tour.Name)

	created, err := s.tours.Create(ctx, tour)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Create: %w", err)
	}
	s.log.InfoContext(ctx, "tour created", "tour_id", created.ID, "nights", created.Nights())
	return created, nil
}

// GetByID returns a single tour.
func (s *TourService) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	t, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.GetByID: %w", err)
	}
	return t, nil
}

// List returns all tours; never nil.
func (s *TourService) List(ctx context.Context) ([]domain.Tour, error) {
	tours, err := s.tours.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TourService.List: %w", err)
	}
	if tours == nil {
		tours = []domain.Tour{}
	}
	return tours, nil
}

// Update validates and overwrites an existing tour. Shortening a tour leaves
// rooms of the dropped nights in place; they become unreachable through the
// night endpoints until the dates are extended again.
func (s *TourService) Update(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	if err := validateTour(tour); err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Update: %w", err)
	}
	tour.Name = strings.TrimSpace(tour.Name)

	updated, err := s.tours.Update(ctx, tour)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes the tour with everything allocated under it, then forgets
// its saved roster order.
func (s *TourService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tours.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TourService.Delete: %w", err)
	}
	if err := s.roster.Delete(ctx, id); err != nil {
		// The tour is gone; a stale order is harmless and normalised away.
		s.log.WarnContext(ctx, "roster order not removed", "tour_id", id, "error", err)
	}
	s.log.InfoContext(ctx, "tour deleted", "tour_id", id)
	return nil
}

// ListTravelers returns one page of the tour's roster in source order.
func (s *TourService) ListTravelers(ctx context.Context, tourID uuid.UUID, p domain.PaginationParams) ([]domain.Traveler, int64, error) {
	if _, err := s.tours.GetByID(ctx, tourID); err != nil {
		return nil, 0, fmt.Errorf("service.TourService.ListTravelers: %w", err)
	}
	travelers, total, err := s.travelers.ListPaged(ctx, tourID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TourService.ListTravelers: %w", err)
	}
	if travelers == nil {
		travelers = []domain.Traveler{}
	}
	return travelers, total, nil
}

func validateTour(t domain.Tour) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if t.DepartureDate.IsZero() {
		return fmt.Errorf("%w: departure date is required", domain.ErrValidation)
	}
	if t.ReturnDate != nil && t.ReturnDate.Before(t.DepartureDate) {
		return fmt.Errorf("%w: return date must not be before departure date", domain.ErrValidation)
	}
	return nil
}
