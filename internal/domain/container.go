package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two container variants.
type Kind string

const (
	KindRoom    Kind = "room"
	KindVehicle Kind = "vehicle"
)

// Scope is the uniqueness and visibility boundary for assignments: a single
// night for rooms, the whole tour for vehicles (Night is always 0).
type Scope struct {
	TourID uuid.UUID
	Kind   Kind
	Night  int
}

// RoomScope returns the scope of the rooms booked for night n.
func RoomScope(tourID uuid.UUID, night int) Scope {
	return Scope{TourID: tourID, Kind: KindRoom, Night: night}
}

// VehicleScope returns the tour-wide vehicle scope.
func VehicleScope(tourID uuid.UUID) Scope {
	return Scope{TourID: tourID, Kind: KindVehicle}
}

func (s Scope) String() string {
	if s.Kind == KindVehicle {
		return fmt.Sprintf("%s/vehicles", s.TourID)
	}
	return fmt.Sprintf("%s/night-%d", s.TourID, s.Night)
}

// Container is a capacity unit travelers are assigned to: a room scoped to a
// night, or a vehicle scoped to the whole tour.
//
// Occupancy is never stored on the container; it is derived from the
// assignment rows every time it is needed.
type Container struct {
	ID           uuid.UUID
	TourID       uuid.UUID
	Kind         Kind
	Night        int    // 0 for vehicles
	VariantLabel string // room sub-type / source name, or the vehicle name
	Type         string // a RoomType or VehicleType value
	Capacity     int
	DisplayOrder int

	// Vehicle-only details; empty for rooms.
	DriverName   string
	DriverPhone  string
	LicensePlate string

	CreatedAt time.Time
}

// Scope returns the scope the container belongs to.
func (c Container) Scope() Scope {
	return Scope{TourID: c.TourID, Kind: c.Kind, Night: c.Night}
}

// RoomType is the closed set of room types. Each maps to a fixed capacity.
type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
	RoomQuad   RoomType = "quad"
)

// MaxBatchCount caps how many containers of one type a single create or
// regeneration may produce.
const MaxBatchCount = 500

// RegenerateOrder is the fixed order in which a bulk room regeneration
// creates each type.
var RegenerateOrder = []RoomType{RoomDouble, RoomTriple, RoomSingle, RoomQuad}

var roomCapacity = map[RoomType]int{
	RoomSingle: 1,
	RoomDouble: 2,
	RoomTriple: 3,
	RoomQuad:   4,
}

var roomNames = map[RoomType]string{
	RoomSingle: "Single",
	RoomDouble: "Double",
	RoomTriple: "Triple",
	RoomQuad:   "Quad",
}

// ParseRoomType validates s against the closed room type enum.
func ParseRoomType(s string) (RoomType, error) {
	rt := RoomType(s)
	if _, ok := roomCapacity[rt]; !ok {
		return "", fmt.Errorf("%w: unknown room type %q", ErrValidation, s)
	}
	return rt, nil
}

// Capacity returns the fixed number of beds for the room type.
func (rt RoomType) Capacity() int { return roomCapacity[rt] }

// VehicleType is the set of vehicle classes. Each has a default seat count
// that the operator may override per vehicle.
type VehicleType string

const (
	VehicleLargeBus  VehicleType = "large_bus"
	VehicleMediumBus VehicleType = "medium_bus"
	VehicleMiniBus   VehicleType = "mini_bus"
	VehicleVan       VehicleType = "van"
	VehicleCar       VehicleType = "car"
)

var vehicleCapacity = map[VehicleType]int{
	VehicleLargeBus:  45,
	VehicleMediumBus: 28,
	VehicleMiniBus:   20,
	VehicleVan:       9,
	VehicleCar:       4,
}

var vehicleNames = map[VehicleType]string{
	VehicleLargeBus:  "Large Bus",
	VehicleMediumBus: "Medium Bus",
	VehicleMiniBus:   "Mini Bus",
	VehicleVan:       "Van",
	VehicleCar:       "Car",
}

// ParseVehicleType validates s against the known vehicle types.
func ParseVehicleType(s string) (VehicleType, error) {
	vt := VehicleType(s)
	if _, ok := vehicleCapacity[vt]; !ok {
		return "", fmt.Errorf("%w: unknown vehicle type %q", ErrValidation, s)
	}
	return vt, nil
}

// DefaultCapacity returns the seat count used when the operator does not
// override it.
func (vt VehicleType) DefaultCapacity() int { return vehicleCapacity[vt] }

// TypeName returns the human name of a room or vehicle type value.
// Unknown values are returned unchanged.
func TypeName(kind Kind, typ string) string {
	var name string
	switch kind {
	case KindRoom:
		name = roomNames[RoomType(typ)]
	case KindVehicle:
		name = vehicleNames[VehicleType(typ)]
	}
	if name == "" {
		return typ
	}
	return name
}
