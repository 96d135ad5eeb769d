package family

import "errors"

// ValidationError marks input problems surfaced to the caller before any
// write happens.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	// ErrNameGenderRequired is returned when the required member fields are
	// missing or the gender value is outside the enum.
	ErrNameGenderRequired = ValidationError("name and gender are required")
	// ErrSpouseCodeNotFound is returned when a spouse_code does not resolve
	// to any existing member.
	ErrSpouseCodeNotFound = ValidationError("spouse code not found")
	// ErrParentsNotInFamily is returned when father_id or mother_id points
	// outside the member's own family.
	ErrParentsNotInFamily = ValidationError("parents must belong to the same family")
)

// ErrNotFound is returned when the member does not exist in the actor's
// family.
var ErrNotFound = errors.New("family member not found")
