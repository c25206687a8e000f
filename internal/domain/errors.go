package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. blank required label, unknown room type, night out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrContainerFull is returned when an assignment targets a container whose
// occupancy already equals its capacity.
var ErrContainerFull = errors.New("container full")

// ErrAlreadyAssigned is returned when the traveler already holds an assignment
// of the same kind within the target scope (the same night for rooms, the whole
// tour for vehicles).
var ErrAlreadyAssigned = errors.New("already assigned in this scope")

// ErrContinuationSourceMissing is returned when a night is marked as a
// continuation but no earlier night has a room set to copy.
var ErrContinuationSourceMissing = errors.New("nothing to copy from an earlier night")

// ErrConfirmationRequired is returned when a bulk replace would destroy
// occupied containers and the caller did not confirm it.
var ErrConfirmationRequired = errors.New("confirmation required")
