package dungeon

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidLevel      = errors.New("level number must be positive")
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
	ErrInvalidConfig     = errors.New("invalid dungeon config")
	ErrNoRooms           = errors.New("partition produced no rooms")
	ErrDegenerateLayout  = errors.New("cannot separate start and exit")
)

func invalidDimensions(width, height int) error {
	return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
}

// VerifyError reports which level property failed a post-generation check.
type VerifyError struct {
	Property string
	Detail   string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Property, e.Detail)
}
