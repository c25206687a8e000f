package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tour-allocation/internal/domain"
)

// pathUUID binds a {name} path segment as a UUID the way generated
// oapi-codegen wrappers do.
func pathUUID(r *http.Request, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return id, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return id, nil
}

// pathNight binds the {night} path segment. Range checks belong to the
// service, which knows the tour's length.
func pathNight(r *http.Request) (int, error) {
	var night int
	err := runtime.BindStyledParameterWithOptions("simple", "night", chi.URLParam(r, "night"), &night,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter night: %w", err)
	}
	return night, nil
}

// nightScope binds {tourId} and {night} into a room scope.
func nightScope(r *http.Request) (domain.Scope, error) {
	tourID, err := pathUUID(r, "tourId")
	if err != nil {
		return domain.Scope{}, err
	}
	night, err := pathNight(r)
	if err != nil {
		return domain.Scope{}, err
	}
	return domain.RoomScope(tourID, night), nil
}

// queryConfirm reads the optional ?confirm= flag guarding destructive replaces.
func queryConfirm(r *http.Request) (bool, error) {
	var confirm *bool
	if err := runtime.BindQueryParameter("form", true, false, "confirm", r.URL.Query(), &confirm); err != nil {
		return false, fmt.Errorf("invalid format for parameter confirm: %w", err)
	}
	return confirm != nil && *confirm, nil
}

// scopeRef is how request bodies and queries name an assignment scope:
// {"scope":"room","night":2} or {"scope":"vehicle"}.
type scopeRef struct {
	Scope string `json:"scope"`
	Night int    `json:"night,omitempty"`
}

func (ref scopeRef) resolve(tourID openapi_types.UUID) (domain.Scope, error) {
	switch domain.Kind(ref.Scope) {
	case domain.KindRoom:
		return domain.RoomScope(tourID, ref.Night), nil
	case domain.KindVehicle:
		return domain.VehicleScope(tourID), nil
	default:
		return domain.Scope{}, fmt.Errorf("%w: scope must be %q or %q", domain.ErrValidation, domain.KindRoom, domain.KindVehicle)
	}
}

// queryScope binds ?scope=&night= for roster reads.
func queryScope(r *http.Request, tourID openapi_types.UUID) (domain.Scope, error) {
	var ref scopeRef
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "scope", q, &ref.Scope); err != nil {
		return domain.Scope{}, fmt.Errorf("invalid format for parameter scope: %w", err)
	}
	var night *int
	if err := runtime.BindQueryParameter("form", true, false, "night", q, &night); err != nil {
		return domain.Scope{}, fmt.Errorf("invalid format for parameter night: %w", err)
	}
	if night != nil {
		ref.Night = *night
	}
	return ref.resolve(tourID)
}
