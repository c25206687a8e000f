package domain

import (
	"time"

	"github.com/google/uuid"
)

// Assignment links a traveler to a container. Kind and Night are copied from
// the container at insert time so that per-scope uniqueness can be enforced
// by a single index.
type Assignment struct {
	ID          uuid.UUID
	TourID      uuid.UUID
	ContainerID uuid.UUID
	TravelerID  uuid.UUID
	Kind        Kind
	Night       int
	CreatedAt   time.Time
}

// AssignGuard is evaluated by the assignment store while the target container
// is locked. It receives the locked container and every assignment currently
// held in that container's scope; a non-nil error aborts the insert.
type AssignGuard func(target Container, scope []Assignment) error

// NightState is the continuation flag of a single night.
type NightState struct {
	TourID    uuid.UUID
	Night     int
	Continued bool
}

// ReplaceGuard is evaluated while a scope's containers are locked for
// replacement. It receives the current containers and their assignments; a
// non-nil error aborts the replacement and leaves the scope unchanged.
type ReplaceGuard func(existing []Container, scope []Assignment) error
