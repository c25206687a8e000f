package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tour-allocation/internal/allocation"
	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/handler"
	"github.com/pkordes/tour-allocation/internal/service"
)

// Test doubles for the handler's servicer interfaces.
// Set only the method fields your test needs.

type mockTourServicer struct {
	create        func(ctx context.Context, t domain.Tour) (domain.Tour, error)
	getByID       func(ctx context.Context, id uuid.UUID) (domain.Tour, error)
	list          func(ctx context.Context) ([]domain.Tour, error)
	update        func(ctx context.Context, t domain.Tour) (domain.Tour, error)
	delete        func(ctx context.Context, id uuid.UUID) error
	listTravelers func(ctx context.Context, tourID uuid.UUID, p domain.PaginationParams) ([]domain.Traveler, int64, error)
}

func (m *mockTourServicer) Create(ctx context.Context, t domain.Tour) (domain.Tour, error) {
	return m.create(ctx, t)
}
func (m *mockTourServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	return m.getByID(ctx, id)
}
func (m *mockTourServicer) List(ctx context.Context) ([]domain.Tour, error) { return m.list(ctx) }
func (m *mockTourServicer) Update(ctx context.Context, t domain.Tour) (domain.Tour, error) {
	return m.update(ctx, t)
}
func (m *mockTourServicer) Delete(ctx context.Context, id uuid.UUID) error { return m.delete(ctx, id) }
func (m *mockTourServicer) ListTravelers(ctx context.Context, tourID uuid.UUID, p domain.PaginationParams) ([]domain.Traveler, int64, error) {
	return m.listTravelers(ctx, tourID, p)
}

type mockContainerServicer struct {
	create        func(ctx context.Context, scope domain.Scope, in service.CreateInput) ([]domain.Container, error)
	delete        func(ctx context.Context, id uuid.UUID) error
	regenerate    func(ctx context.Context, tourID uuid.UUID, night int, in service.RegenerateInput, confirm bool) ([]domain.Container, error)
	updateVehicle func(ctx context.Context, id uuid.UUID, in service.VehicleInput) (domain.Container, error)
	list          func(ctx context.Context, scope domain.Scope) ([]service.ContainerView, error)
	summary       func(ctx context.Context, tourID uuid.UUID, night int) (service.NightSummary, error)
}

func (m *mockContainerServicer) Create(ctx context.Context, scope domain.Scope, in service.CreateInput) ([]domain.Container, error) {
	return m.create(ctx, scope, in)
}
func (m *mockContainerServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockContainerServicer) Regenerate(ctx context.Context, tourID uuid.UUID, night int, in service.RegenerateInput, confirm bool) ([]domain.Container, error) {
	return m.regenerate(ctx, tourID, night, in, confirm)
}
func (m *mockContainerServicer) UpdateVehicle(ctx context.Context, id uuid.UUID, in service.VehicleInput) (domain.Container, error) {
	return m.updateVehicle(ctx, id, in)
}
func (m *mockContainerServicer) List(ctx context.Context, scope domain.Scope) ([]service.ContainerView, error) {
	return m.list(ctx, scope)
}
func (m *mockContainerServicer) Summary(ctx context.Context, tourID uuid.UUID, night int) (service.NightSummary, error) {
	return m.summary(ctx, tourID, night)
}

type mockContinuationServicer struct {
	effectiveConfig func(ctx context.Context, tourID uuid.UUID, night int) (allocation.NightConfig, error)
	enable          func(ctx context.Context, tourID uuid.UUID, night int, confirm bool) ([]domain.Container, error)
	disable         func(ctx context.Context, tourID uuid.UUID, night int) error
	listNights      func(ctx context.Context, tourID uuid.UUID) ([]service.NightView, error)
}

func (m *mockContinuationServicer) EffectiveConfig(ctx context.Context, tourID uuid.UUID, night int) (allocation.NightConfig, error) {
	return m.effectiveConfig(ctx, tourID, night)
}
func (m *mockContinuationServicer) Enable(ctx context.Context, tourID uuid.UUID, night int, confirm bool) ([]domain.Container, error) {
	return m.enable(ctx, tourID, night, confirm)
}
func (m *mockContinuationServicer) Disable(ctx context.Context, tourID uuid.UUID, night int) error {
	return m.disable(ctx, tourID, night)
}
func (m *mockContinuationServicer) ListNights(ctx context.Context, tourID uuid.UUID) ([]service.NightView, error) {
	return m.listNights(ctx, tourID)
}

type mockAssignmentServicer struct {
	assign         func(ctx context.Context, containerID, travelerID uuid.UUID) (domain.Assignment, error)
	unassign       func(ctx context.Context, id uuid.UUID) error
	listOccupants  func(ctx context.Context, containerID uuid.UUID) ([]service.Occupant, error)
	listUnassigned func(ctx context.Context, scope domain.Scope) ([]domain.Traveler, error)
}

func (m *mockAssignmentServicer) Assign(ctx context.Context, containerID, travelerID uuid.UUID) (domain.Assignment, error) {
	return m.assign(ctx, containerID, travelerID)
}
func (m *mockAssignmentServicer) Unassign(ctx context.Context, id uuid.UUID) error {
	return m.unassign(ctx, id)
}
func (m *mockAssignmentServicer) ListOccupants(ctx context.Context, containerID uuid.UUID) ([]service.Occupant, error) {
	return m.listOccupants(ctx, containerID)
}
func (m *mockAssignmentServicer) ListUnassigned(ctx context.Context, scope domain.Scope) ([]domain.Traveler, error) {
	return m.listUnassigned(ctx, scope)
}

type mockRosterServicer struct {
	view   func(ctx context.Context, scope domain.Scope) (service.RosterView, error)
	move   func(ctx context.Context, scope domain.Scope, dragged, target uuid.UUID) (service.RosterView, error)
	resort func(ctx context.Context, scope domain.Scope) (service.RosterView, error)
	sync   func(ctx context.Context, scope domain.Scope) ([]service.ContainerView, error)
}

func (m *mockRosterServicer) View(ctx context.Context, scope domain.Scope) (service.RosterView, error) {
	return m.view(ctx, scope)
}
func (m *mockRosterServicer) Move(ctx context.Context, scope domain.Scope, dragged, target uuid.UUID) (service.RosterView, error) {
	return m.move(ctx, scope, dragged, target)
}
func (m *mockRosterServicer) Resort(ctx context.Context, scope domain.Scope) (service.RosterView, error) {
	return m.resort(ctx, scope)
}
func (m *mockRosterServicer) SyncDisplayOrder(ctx context.Context, scope domain.Scope) ([]service.ContainerView, error) {
	return m.sync(ctx, scope)
}

type mockExportServicer struct {
	roomingList func(ctx context.Context, tourID uuid.UUID) ([]domain.RoomingRow, error)
}

func (m *mockExportServicer) RoomingList(ctx context.Context, tourID uuid.UUID) ([]domain.RoomingRow, error) {
	return m.roomingList(ctx, tourID)
}

// compile-time checks: every mock must satisfy its handler interface.
var (
	_ handler.TourServicer         = (*mockTourServicer)(nil)
	_ handler.ContainerServicer    = (*mockContainerServicer)(nil)
	_ handler.ContinuationServicer = (*mockContinuationServicer)(nil)
	_ handler.AssignmentServicer   = (*mockAssignmentServicer)(nil)
	_ handler.RosterServicer       = (*mockRosterServicer)(nil)
	_ handler.ExportServicer       = (*mockExportServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// services collects the mocks a test wires; nil fields stay nil in the Server.
type services struct {
	tours        *mockTourServicer
	containers   *mockContainerServicer
	continuation *mockContinuationServicer
	assignments  *mockAssignmentServicer
	roster       *mockRosterServicer
	export       *mockExportServicer
	log          *slog.Logger
}

// newHTTPHandler wires a Server with the given mocks into its chi router,
// mirroring how main.go wires it in production.
func newHTTPHandler(svc services) http.Handler {
	log := svc.log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := handler.NewServer(svc.tours, svc.containers, svc.continuation, svc.assignments, svc.roster, svc.export, log)
	return srv.Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends one request through h and returns the recorder.
func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// errorCode decodes an error response and returns its code.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, rec).Error.Code
}
