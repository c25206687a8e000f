package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/allocation"
	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/metrics"
	"github.com/pkordes/tour-allocation/internal/repo"
)

// NightView is one night of the tour as listed to the operator.
type NightView struct {
	Night      int
	Date       time.Time
	Continued  bool
	Source     int // night the room set is resolved from
	Containers int
}

// ContinuationService implements "same rooms as the previous night".
type ContinuationService struct {
	tours      repo.TourRepo
	containers repo.ContainerRepo
	nights     repo.NightRepo
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// NewContinuationService constructs a ContinuationService.
func NewContinuationService(tours repo.TourRepo, containers repo.ContainerRepo, nights repo.NightRepo, m *metrics.Metrics, log *slog.Logger) *ContinuationService {
	return &ContinuationService{tours: tours, containers: containers, nights: nights, metrics: m, log: orDefault(log)}
}

// flags loads the tour's continuation flags as a lookup.
func (s *ContinuationService) flags(ctx context.Context, tourID uuid.UUID) (func(int) bool, error) {
	states, err := s.nights.List(ctx, tourID)
	if err != nil {
		return nil, err
	}
	continued := make(map[int]bool, len(states))
	for _, st := range states {
		continued[st.Night] = st.Continued
	}
	return func(n int) bool { return continued[n] }, nil
}

// EffectiveConfig returns the room configuration night n uses: its own, or
// that of the nearest earlier independent night when n is continued.
func (s *ContinuationService) EffectiveConfig(ctx context.Context, tourID uuid.UUID, night int) (allocation.NightConfig, error) {
	tour, err := loadScope(ctx, s.tours, domain.RoomScope(tourID, night))
	if err != nil {
		return allocation.NightConfig{}, fmt.Errorf("service.ContinuationService.EffectiveConfig: %w", err)
	}
	continued, err := s.flags(ctx, tourID)
	if err != nil {
		return allocation.NightConfig{}, fmt.Errorf("service.ContinuationService.EffectiveConfig: %w", err)
	}

	source := allocation.ResolveNight(night, continued, tour.Nights())
	containers, err := s.containers.ListByScope(ctx, domain.RoomScope(tourID, source))
	if err != nil {
		return allocation.NightConfig{}, fmt.Errorf("service.ContinuationService.EffectiveConfig: %w", err)
	}
	cfg := allocation.ConfigOf(source, containers)
	if cfg.Lines == nil {
		cfg.Lines = []allocation.ConfigLine{}
	}
	return cfg, nil
}

// Enable marks night n as continuing the previous night and materialises a
// copy of the resolved source night's rooms into it. Night 1 has nothing to
// continue from, and neither does a night whose source has no rooms; both
// fail with domain.ErrContinuationSourceMissing. Night n's current rooms are
// replaced, which needs confirm when any of them is occupied.
func (s *ContinuationService) Enable(ctx context.Context, tourID uuid.UUID, night int, confirm bool) ([]domain.Container, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.ContinuationService.Enable: %w", err)
	}
	if night == 1 {
		return nil, fmt.Errorf("service.ContinuationService.Enable: %w: night 1 has no previous night", domain.ErrContinuationSourceMissing)
	}
	if !tour.ValidNight(night) {
		return nil, fmt.Errorf("service.ContinuationService.Enable: %w: night %d is outside 1..%d", domain.ErrValidation, night, tour.Nights())
	}

	continued, err := s.flags(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.ContinuationService.Enable: %w", err)
	}
	source := allocation.ResolveNight(night-1, continued, tour.Nights())
	rooms, err := s.containers.ListByScope(ctx, domain.RoomScope(tourID, source))
	if err != nil {
		return nil, fmt.Errorf("service.ContinuationService.Enable: %w", err)
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("service.ContinuationService.Enable: %w: night %d has no rooms", domain.ErrContinuationSourceMissing, source)
	}

	target := domain.RoomScope(tourID, night)
	created, err := s.containers.ReplaceScope(ctx, target, allocation.CopyForNight(rooms, target), confirmGuard(confirm))
	if err != nil {
		return nil, fmt.Errorf("service.ContinuationService.Enable: %w", err)
	}
	if err := s.nights.SetContinued(ctx, tourID, night, true); err != nil {
		return nil, fmt.Errorf("service.ContinuationService.Enable: %w", err)
	}

	s.metrics.IncReplacement("continuation")
	s.log.InfoContext(ctx, "night continued", "scope", target.String(), "source_night", source, "rooms", len(created))
	return created, nil
}

// Disable clears the flag of night n. The copied rooms stay and become the
// night's own set. Night 1 is never continued, so disabling it is a no-op.
func (s *ContinuationService) Disable(ctx context.Context, tourID uuid.UUID, night int) error {
	if _, err := loadScope(ctx, s.tours, domain.RoomScope(tourID, night)); err != nil {
		return fmt.Errorf("service.ContinuationService.Disable: %w", err)
	}
	if night == 1 {
		return nil
	}
	if err := s.nights.SetContinued(ctx, tourID, night, false); err != nil {
		return fmt.Errorf("service.ContinuationService.Disable: %w", err)
	}
	s.log.InfoContext(ctx, "night continuation cleared", "tour_id", tourID, "night", night)
	return nil
}

// ListNights returns every night of the tour with its continuation state.
func (s *ContinuationService) ListNights(ctx context.Context, tourID uuid.UUID) ([]NightView, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.ContinuationService.ListNights: %w", err)
	}
	continued, err := s.flags(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.ContinuationService.ListNights: %w", err)
	}
	counts, err := s.containers.CountByTour(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.ContinuationService.ListNights: %w", err)
	}

	n := tour.Nights()
	out := make([]NightView, 0, n)
	for night := 1; night <= n; night++ {
		out = append(out, NightView{
			Night:      night,
			Date:       tour.NightDate(night),
			Continued:  night > 1 && continued(night),
			Source:     allocation.ResolveNight(night, continued, n),
			Containers: counts[night],
		})
	}
	return out, nil
}
