package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/tour-allocation/internal/allocation"
	"github.com/pkordes/tour-allocation/internal/domain"
	"github.com/pkordes/tour-allocation/internal/service"
)

// Wire types for the JSON API. They mirror the schemas in spec/openapi.yaml.

type TourRequest struct {
	Name          string              `json:"name"`
	DepartureDate openapi_types.Date  `json:"departure_date"`
	ReturnDate    *openapi_types.Date `json:"return_date,omitempty"`
}

type Tour struct {
	ID            openapi_types.UUID  `json:"id"`
	Name          string              `json:"name"`
	DepartureDate openapi_types.Date  `json:"departure_date"`
	ReturnDate    *openapi_types.Date `json:"return_date,omitempty"`
	Nights        int                 `json:"nights"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type Traveler struct {
	ID          openapi_types.UUID `json:"id"`
	DisplayName string             `json:"display_name"`
	CreatedAt   time.Time          `json:"created_at"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type TravelerPage struct {
	Data       []Traveler `json:"data"`
	Pagination Pagination `json:"pagination"`
}

type CreateRoomsRequest struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type RegenerateRoomsRequest struct {
	Label  string         `json:"label"`
	Counts map[string]int `json:"counts"`
}

type VehicleRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Capacity     int    `json:"capacity,omitempty"`
	Count        *int   `json:"count,omitempty"`
	DriverName   string `json:"driver_name,omitempty"`
	DriverPhone  string `json:"driver_phone,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
}

type Container struct {
	ID           openapi_types.UUID `json:"id"`
	TourID       openapi_types.UUID `json:"tour_id"`
	Kind         string             `json:"kind"`
	Night        int                `json:"night,omitempty"`
	Type         string             `json:"type"`
	VariantLabel string             `json:"variant_label"`
	Capacity     int                `json:"capacity"`
	DisplayOrder int                `json:"display_order"`
	DriverName   string             `json:"driver_name,omitempty"`
	DriverPhone  string             `json:"driver_phone,omitempty"`
	LicensePlate string             `json:"license_plate,omitempty"`
}

type Occupant struct {
	AssignmentID openapi_types.UUID `json:"assignment_id"`
	TravelerID   openapi_types.UUID `json:"traveler_id"`
	DisplayName  string             `json:"display_name"`
}

// ContainerView is a container with its computed number and occupancy.
type ContainerView struct {
	Container
	Number      int        `json:"number"`
	Label       string     `json:"label"`
	OptionLabel string     `json:"option_label"`
	Occupied    int        `json:"occupied"`
	Remaining   int        `json:"remaining"`
	Full        bool       `json:"full"`
	Occupants   []Occupant `json:"occupants"`
}

type Night struct {
	Night      int                `json:"night"`
	Date       openapi_types.Date `json:"date"`
	Continued  bool               `json:"continued"`
	Source     int                `json:"source_night"`
	Containers int                `json:"containers"`
}

type ConfigLine struct {
	VariantLabel string `json:"variant_label"`
	Type         string `json:"type"`
	Capacity     int    `json:"capacity"`
	Count        int    `json:"count"`
}

type NightConfig struct {
	Night int          `json:"source_night"`
	Total int          `json:"total"`
	Lines []ConfigLine `json:"lines"`
}

type NightSummary struct {
	Night      int                `json:"night"`
	Date       openapi_types.Date `json:"date"`
	Rooms      int                `json:"rooms"`
	Capacity   int                `json:"capacity"`
	Assigned   int                `json:"assigned"`
	Unassigned int                `json:"unassigned"`
}

type AssignRequest struct {
	TravelerID openapi_types.UUID `json:"traveler_id"`
}

type Assignment struct {
	ID          openapi_types.UUID `json:"id"`
	TourID      openapi_types.UUID `json:"tour_id"`
	ContainerID openapi_types.UUID `json:"container_id"`
	TravelerID  openapi_types.UUID `json:"traveler_id"`
	Kind        string             `json:"kind"`
	Night       int                `json:"night,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

type RosterEntry struct {
	TravelerID  openapi_types.UUID  `json:"traveler_id"`
	DisplayName string              `json:"display_name"`
	ContainerID *openapi_types.UUID `json:"container_id,omitempty"`
	Label       string              `json:"label,omitempty"`
}

type Roster struct {
	Scope   string        `json:"scope"`
	Night   int           `json:"night,omitempty"`
	Entries []RosterEntry `json:"entries"`
}

type MoveRequest struct {
	scopeRef
	Dragged openapi_types.UUID `json:"dragged"`
	Target  openapi_types.UUID `json:"target"`
}

type RoomingRow struct {
	Night    int    `json:"night"`
	Date     string `json:"date"`
	Room     string `json:"room"`
	RoomType string `json:"room_type"`
	Capacity int    `json:"capacity"`
	Traveler string `json:"traveler,omitempty"`
}

// --- mapping helpers ---------------------------------------------------------

func tourToResponse(t domain.Tour) Tour {
	resp := Tour{
		ID:            t.ID,
		Name:          t.Name,
		DepartureDate: openapi_types.Date{Time: t.DepartureDate},
		Nights:        t.Nights(),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if t.ReturnDate != nil {
		rd := openapi_types.Date{Time: *t.ReturnDate}
		resp.ReturnDate = &rd
	}
	return resp
}

func travelerToResponse(t domain.Traveler) Traveler {
	return Traveler{ID: t.ID, DisplayName: t.DisplayName, CreatedAt: t.CreatedAt}
}

func travelersToResponse(ts []domain.Traveler) []Traveler {
	out := make([]Traveler, len(ts))
	for i, t := range ts {
		out[i] = travelerToResponse(t)
	}
	return out
}

func containerToResponse(c domain.Container) Container {
	return Container{
		ID:           c.ID,
		TourID:       c.TourID,
		Kind:         string(c.Kind),
		Night:        c.Night,
		Type:         c.Type,
		VariantLabel: c.VariantLabel,
		Capacity:     c.Capacity,
		DisplayOrder: c.DisplayOrder,
		DriverName:   c.DriverName,
		DriverPhone:  c.DriverPhone,
		LicensePlate: c.LicensePlate,
	}
}

func containersToResponse(cs []domain.Container) []Container {
	out := make([]Container, len(cs))
	for i, c := range cs {
		out[i] = containerToResponse(c)
	}
	return out
}

func occupantsToResponse(occ []service.Occupant) []Occupant {
	out := make([]Occupant, len(occ))
	for i, o := range occ {
		out[i] = Occupant{AssignmentID: o.AssignmentID, TravelerID: o.TravelerID, DisplayName: o.DisplayName}
	}
	return out
}

func viewsToResponse(vs []service.ContainerView) []ContainerView {
	out := make([]ContainerView, len(vs))
	for i, v := range vs {
		out[i] = ContainerView{
			Container:   containerToResponse(v.Container),
			Number:      v.Number,
			Label:       v.Label,
			OptionLabel: v.OptionLabel,
			Occupied:    v.Occupied,
			Remaining:   v.Remaining,
			Full:        v.Full,
			Occupants:   occupantsToResponse(v.Occupants),
		}
	}
	return out
}

func configToResponse(cfg allocation.NightConfig) NightConfig {
	lines := make([]ConfigLine, len(cfg.Lines))
	for i, l := range cfg.Lines {
		lines[i] = ConfigLine{VariantLabel: l.VariantLabel, Type: l.Type, Capacity: l.Capacity, Count: l.Count}
	}
	return NightConfig{Night: cfg.Night, Total: cfg.Total(), Lines: lines}
}

func assignmentToResponse(a domain.Assignment) Assignment {
	return Assignment{
		ID:          a.ID,
		TourID:      a.TourID,
		ContainerID: a.ContainerID,
		TravelerID:  a.TravelerID,
		Kind:        string(a.Kind),
		Night:       a.Night,
		CreatedAt:   a.CreatedAt,
	}
}

func rosterToResponse(v service.RosterView) Roster {
	entries := make([]RosterEntry, len(v.Entries))
	for i, e := range v.Entries {
		entries[i] = RosterEntry{
			TravelerID:  e.TravelerID,
			DisplayName: e.DisplayName,
			ContainerID: e.ContainerID,
			Label:       e.Label,
		}
	}
	return Roster{Scope: string(v.Scope.Kind), Night: v.Scope.Night, Entries: entries}
}
