package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/repo"
)

// Hand-written test doubles: each method is a function field, set only the
// ones a test needs. Calling an unset field panics, which flags an
// unexpected repo call.

type mockTourRepo struct {
	create  func(ctx context.Context, t domain.Tour) (domain.Tour, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Tour, error)
	list    func(ctx context.Context) ([]domain.Tour, error)
	update  func(ctx context.Context, t domain.Tour) (domain.Tour, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTourRepo) Create(ctx context.Context, t domain.Tour) (domain.Tour, error) {
	return m.create(ctx, t)
}
func (m *mockTourRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	return m.getByID(ctx, id)
}
func (m *mockTourRepo) List(ctx context.Context) ([]domain.Tour, error) { return m.list(ctx) }
func (m *mockTourRepo) Update(ctx context.Context, t domain.Tour) (domain.Tour, error) {
	return m.update(ctx, t)
}
func (m *mockTourRepo) Delete(ctx context.Context, id uuid.UUID) error { return m.delete(ctx, id) }

var _ repo.TourRepo = (*mockTourRepo)(nil)

type mockTravelerRepo struct {
	create     func(ctx context.Context, t domain.Traveler) (domain.Traveler, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Traveler, error)
	listByTour func(ctx context.Context, tourID uuid.UUID) ([]domain.Traveler, error)
	listPaged  func(ctx context.Context, tourID uuid.UUID, p domain.PaginationParams) ([]domain.Traveler, int64, error)
}

func (m *mockTravelerRepo) Create(ctx context.Context, t domain.Traveler) (domain.Traveler, error) {
	return m.create(ctx, t)
}
func (m *mockTravelerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Traveler, error) {
	return m.getByID(ctx, id)
}
func (m *mockTravelerRepo) ListByTour(ctx context.Context, tourID uuid.UUID) ([]domain.Traveler, error) {
	return m.listByTour(ctx, tourID)
}
func (m *mockTravelerRepo) ListPaged(ctx context.Context, tourID uuid.UUID, p domain.PaginationParams) ([]domain.Traveler, int64, error) {
	return m.listPaged(ctx, tourID, p)
}

var _ repo.TravelerRepo = (*mockTravelerRepo)(nil)

type mockContainerRepo struct {
	createBatch         func(ctx context.Context, cs []domain.Container) ([]domain.Container, error)
	getByID             func(ctx context.Context, id uuid.UUID) (domain.Container, error)
	listByScope         func(ctx context.Context, s domain.Scope) ([]domain.Container, error)
	listByTour          func(ctx context.Context, tourID uuid.UUID, k domain.Kind) ([]domain.Container, error)
	countByTour         func(ctx context.Context, tourID uuid.UUID) (map[int]int, error)
	delete              func(ctx context.Context, id uuid.UUID) error
	replaceScope        func(ctx context.Context, s domain.Scope, r []domain.Container, g domain.ReplaceGuard) ([]domain.Container, error)
	updateVehicle       func(ctx context.Context, c domain.Container) (domain.Container, error)
	updateDisplayOrders func(ctx context.Context, s domain.Scope, ids []uuid.UUID) error
}

func (m *mockContainerRepo) CreateBatch(ctx context.Context, cs []domain.Container) ([]domain.Container, error) {
	return m.createBatch(ctx, cs)
}
func (m *mockContainerRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Container, error) {
	return m.getByID(ctx, id)
}
func (m *mockContainerRepo) ListByScope(ctx context.Context, s domain.Scope) ([]domain.Container, error) {
	return m.listByScope(ctx, s)
}
func (m *mockContainerRepo) ListByTour(ctx context.Context, tourID uuid.UUID, k domain.Kind) ([]domain.Container, error) {
	return m.listByTour(ctx, tourID, k)
}
func (m *mockContainerRepo) CountByTour(ctx context.Context, tourID uuid.UUID) (map[int]int, error) {
	return m.countByTour(ctx, tourID)
}
func (m *mockContainerRepo) Delete(ctx context.Context, id uuid.UUID) error { return m.delete(ctx, id) }
func (m *mockContainerRepo) ReplaceScope(ctx context.Context, s domain.Scope, r []domain.Container, g domain.ReplaceGuard) ([]domain.Container, error) {
	return m.replaceScope(ctx, s, r, g)
}
func (m *mockContainerRepo) UpdateVehicle(ctx context.Context, c domain.Container) (domain.Container, error) {
	return m.updateVehicle(ctx, c)
}
func (m *mockContainerRepo) UpdateDisplayOrders(ctx context.Context, s domain.Scope, ids []uuid.UUID) error {
	return m.updateDisplayOrders(ctx, s, ids)
}

var _ repo.ContainerRepo = (*mockContainerRepo)(nil)

type mockAssignmentRepo struct {
	create          func(ctx context.Context, a domain.Assignment, g domain.AssignGuard) (domain.Assignment, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Assignment, error)
	delete          func(ctx context.Context, id uuid.UUID) error
	listByScope     func(ctx context.Context, s domain.Scope) ([]domain.Assignment, error)
	listByContainer func(ctx context.Context, containerID uuid.UUID) ([]domain.Assignment, error)
	listByTour      func(ctx context.Context, tourID uuid.UUID, k domain.Kind) ([]domain.Assignment, error)
}

func (m *mockAssignmentRepo) Create(ctx context.Context, a domain.Assignment, g domain.AssignGuard) (domain.Assignment, error) {
	return m.create(ctx, a, g)
}
func (m *mockAssignmentRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Assignment, error) {
	return m.getByID(ctx, id)
}
func (m *mockAssignmentRepo) Delete(ctx context.Context, id uuid.UUID) error { return m.delete(ctx, id) }
func (m *mockAssignmentRepo) ListByScope(ctx context.Context, s domain.Scope) ([]domain.Assignment, error) {
	return m.listByScope(ctx, s)
}
func (m *mockAssignmentRepo) ListByContainer(ctx context.Context, containerID uuid.UUID) ([]domain.Assignment, error) {
	return m.listByContainer(ctx, containerID)
}
func (m *mockAssignmentRepo) ListByTour(ctx context.Context, tourID uuid.UUID, k domain.Kind) ([]domain.Assignment, error) {
	return m.listByTour(ctx, tourID, k)
}

var _ repo.AssignmentRepo = (*mockAssignmentRepo)(nil)

type mockNightRepo struct {
	list         func(ctx context.Context, tourID uuid.UUID) ([]domain.NightState, error)
	setContinued func(ctx context.Context, tourID uuid.UUID, night int, continued bool) error
}

func (m *mockNightRepo) List(ctx context.Context, tourID uuid.UUID) ([]domain.NightState, error) {
	return m.list(ctx, tourID)
}
func (m *mockNightRepo) SetContinued(ctx context.Context, tourID uuid.UUID, night int, continued bool) error {
	return m.setContinued(ctx, tourID, night, continued)
}

var _ repo.NightRepo = (*mockNightRepo)(nil)

// memRoster is an in-memory RosterRepo; Update runs fn under a lock.
type memRoster struct {
	mu      sync.Mutex
	order   map[uuid.UUID][]uuid.UUID
	updates int
}

func newMemRoster() *memRoster { return &memRoster{order: make(map[uuid.UUID][]uuid.UUID)} }

func (m *memRoster) Get(_ context.Context, tourID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order[tourID], nil
}
func (m *memRoster) Update(_ context.Context, tourID uuid.UUID, fn func([]uuid.UUID) ([]uuid.UUID, error)) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next, err := fn(m.order[tourID])
	if err != nil {
		return nil, err
	}
	m.order[tourID] = next
	m.updates++
	return next, nil
}
func (m *memRoster) Delete(_ context.Context, tourID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.order, tourID)
	return nil
}

var _ repo.RosterRepo = (*memRoster)(nil)
