package contracts

import (
	"errors"
	"fmt"
)

// ErrInvalidSector is matched by every InvalidSectorError
var ErrInvalidSector = errors.New("invalid sector")

// InvalidSectorError is returned when a sector yields zero members
type InvalidSectorError struct {
	Sector string
}

func (e *InvalidSectorError) Error() string {
	return fmt.Sprintf("invalid sector name: %s", e.Sector)
}

// Is makes errors.Is(err, ErrInvalidSector) match
func (e *InvalidSectorError) Is(target error) bool {
	return target == ErrInvalidSector
}
