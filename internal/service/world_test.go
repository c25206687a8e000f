package service_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/service"
)

// world is an in-memory tour that backs every repo mock, for scenario tests
// that exercise several services against shared state.
type world struct {
	mu          sync.Mutex
	tour        domain.Tour
	travelers   []domain.Traveler
	containers  []domain.Container
	assignments []domain.Assignment
	continued   map[int]bool
	roster      *memRoster
}

// newWorld builds a tour with the given number of nights and one traveler
// per name.
func newWorld(nights int, names ...string) *world {
	dep := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ret := dep.AddDate(0, 0, nights)
	w := &world{
		tour:      domain.Tour{ID: uuid.New(), Name: "Douro Valley", DepartureDate: dep, ReturnDate: &ret},
		continued: make(map[int]bool),
		roster:    newMemRoster(),
	}
	for _, n := range names {
		w.travelers = append(w.travelers, domain.Traveler{ID: uuid.New(), TourID: w.tour.ID, DisplayName: n})
	}
	return w
}

func (w *world) traveler(name string) uuid.UUID {
	for _, t := range w.travelers {
		if t.DisplayName == name {
			return t.ID
		}
	}
	panic("unknown traveler " + name)
}

func (w *world) names(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		for _, t := range w.travelers {
			if t.ID == id {
				out[i] = t.DisplayName
			}
		}
	}
	return out
}

func (w *world) scopeOf(s domain.Scope) []domain.Container {
	var out []domain.Container
	for _, c := range w.containers {
		if c.Scope() == s {
			out = append(out, c)
		}
	}
	return out
}

func (w *world) tourRepo() *mockTourRepo {
	return &mockTourRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Tour, error) {
			if id != w.tour.ID {
				return domain.Tour{}, domain.ErrNotFound
			}
			return w.tour, nil
		},
	}
}

func (w *world) travelerRepo() *mockTravelerRepo {
	return &mockTravelerRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Traveler, error) {
			for _, t := range w.travelers {
				if t.ID == id {
					return t, nil
				}
			}
			return domain.Traveler{}, domain.ErrNotFound
		},
		listByTour: func(_ context.Context, _ uuid.UUID) ([]domain.Traveler, error) {
			return slices.Clone(w.travelers), nil
		},
	}
}

func (w *world) containerRepo() *mockContainerRepo {
	insert := func(cs []domain.Container) []domain.Container {
		out := make([]domain.Container, len(cs))
		for i, c := range cs {
			c.ID = uuid.New()
			w.containers = append(w.containers, c)
			out[i] = c
		}
		return out
	}
	return &mockContainerRepo{
		createBatch: func(_ context.Context, cs []domain.Container) ([]domain.Container, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			return insert(cs), nil
		},
		getByID: func(_ context.Context, id uuid.UUID) (domain.Container, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			for _, c := range w.containers {
				if c.ID == id {
					return c, nil
				}
			}
			return domain.Container{}, domain.ErrNotFound
		},
		listByScope: func(_ context.Context, s domain.Scope) ([]domain.Container, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			return w.scopeOf(s), nil
		},
		listByTour: func(_ context.Context, _ uuid.UUID, k domain.Kind) ([]domain.Container, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			var out []domain.Container
			for _, c := range w.containers {
				if c.Kind == k {
					out = append(out, c)
				}
			}
			return out, nil
		},
		countByTour: func(_ context.Context, _ uuid.UUID) (map[int]int, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			counts := map[int]int{}
			for _, c := range w.containers {
				counts[c.Night]++
			}
			return counts, nil
		},
		delete: func(_ context.Context, id uuid.UUID) error {
			w.mu.Lock()
			defer w.mu.Unlock()
			i := slices.IndexFunc(w.containers, func(c domain.Container) bool { return c.ID == id })
			if i < 0 {
				return domain.ErrNotFound
			}
			w.containers = slices.Delete(w.containers, i, i+1)
			w.assignments = slices.DeleteFunc(w.assignments, func(a domain.Assignment) bool { return a.ContainerID == id })
			return nil
		},
		replaceScope: func(_ context.Context, s domain.Scope, r []domain.Container, g domain.ReplaceGuard) ([]domain.Container, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			existing := w.scopeOf(s)
			held := w.assignmentsIn(s)
			if g != nil {
				if err := g(existing, held); err != nil {
					return nil, fmt.Errorf("mock replace: %w", err)
				}
			}
			w.containers = slices.DeleteFunc(w.containers, func(c domain.Container) bool { return c.Scope() == s })
			w.assignments = slices.DeleteFunc(w.assignments, func(a domain.Assignment) bool {
				return a.Kind == s.Kind && a.Night == s.Night
			})
			return insert(r), nil
		},
		updateVehicle: func(_ context.Context, c domain.Container) (domain.Container, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			for i := range w.containers {
				if w.containers[i].ID == c.ID {
					w.containers[i] = c
					return c, nil
				}
			}
			return domain.Container{}, domain.ErrNotFound
		},
		updateDisplayOrders: func(_ context.Context, s domain.Scope, ids []uuid.UUID) error {
			w.mu.Lock()
			defer w.mu.Unlock()
			for i := range w.containers {
				if j := slices.Index(ids, w.containers[i].ID); j >= 0 && w.containers[i].Scope() == s {
					w.containers[i].DisplayOrder = j
				}
			}
			return nil
		},
	}
}

func (w *world) assignmentsIn(s domain.Scope) []domain.Assignment {
	var out []domain.Assignment
	for _, a := range w.assignments {
		if a.TourID == s.TourID && a.Kind == s.Kind && a.Night == s.Night {
			out = append(out, a)
		}
	}
	return out
}

func (w *world) assignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{
		create: func(_ context.Context, a domain.Assignment, g domain.AssignGuard) (domain.Assignment, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			i := slices.IndexFunc(w.containers, func(c domain.Container) bool { return c.ID == a.ContainerID })
			if i < 0 {
				return domain.Assignment{}, domain.ErrNotFound
			}
			target := w.containers[i]
			if g != nil {
				if err := g(target, w.assignmentsIn(target.Scope())); err != nil {
					return domain.Assignment{}, err
				}
			}
			a.ID = uuid.New()
			a.TourID, a.Kind, a.Night = target.TourID, target.Kind, target.Night
			w.assignments = append(w.assignments, a)
			return a, nil
		},
		delete: func(_ context.Context, id uuid.UUID) error {
			w.mu.Lock()
			defer w.mu.Unlock()
			i := slices.IndexFunc(w.assignments, func(a domain.Assignment) bool { return a.ID == id })
			if i < 0 {
				return domain.ErrNotFound
			}
			w.assignments = slices.Delete(w.assignments, i, i+1)
			return nil
		},
		listByScope: func(_ context.Context, s domain.Scope) ([]domain.Assignment, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			return w.assignmentsIn(s), nil
		},
		listByContainer: func(_ context.Context, id uuid.UUID) ([]domain.Assignment, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			var out []domain.Assignment
			for _, a := range w.assignments {
				if a.ContainerID == id {
					out = append(out, a)
				}
			}
			return out, nil
		},
		listByTour: func(_ context.Context, _ uuid.UUID, k domain.Kind) ([]domain.Assignment, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			var out []domain.Assignment
			for _, a := range w.assignments {
				if a.Kind == k {
					out = append(out, a)
				}
			}
			return out, nil
		},
	}
}

func (w *world) nightRepo() *mockNightRepo {
	return &mockNightRepo{
		list: func(_ context.Context, tourID uuid.UUID) ([]domain.NightState, error) {
			w.mu.Lock()
			defer w.mu.Unlock()
			var out []domain.NightState
			for n, c := range w.continued {
				out = append(out, domain.NightState{TourID: tourID, Night: n, Continued: c})
			}
			return out, nil
		},
		setContinued: func(_ context.Context, _ uuid.UUID, night int, continued bool) error {
			w.mu.Lock()
			defer w.mu.Unlock()
			w.continued[night] = continued
			return nil
		},
	}
}

func (w *world) containerService() *service.ContainerService {
	return service.NewContainerService(w.tourRepo(), w.travelerRepo(), w.containerRepo(), w.assignmentRepo(), w.nightRepo(), nil, nil)
}

func (w *world) continuationService() *service.ContinuationService {
	return service.NewContinuationService(w.tourRepo(), w.containerRepo(), w.nightRepo(), nil, nil)
}

func (w *world) assignmentService() *service.AssignmentService {
	return service.NewAssignmentService(w.tourRepo(), w.travelerRepo(), w.containerRepo(), w.assignmentRepo(), nil, nil)
}

func (w *world) rosterService() *service.RosterService {
	return service.NewRosterService(w.tourRepo(), w.travelerRepo(), w.containerRepo(), w.assignmentRepo(), w.roster, nil, nil)
}

func (w *world) exportService() *service.ExportService {
	return service.NewExportService(w.tourRepo(), w.travelerRepo(), w.containerRepo(), w.assignmentRepo())
}
