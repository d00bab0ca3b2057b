package stego

import (
	"errors"
	"fmt"
)

var (
	ErrCapacityExceeded = errors.New("payload exceeds carrier capacity")
	ErrInvalidFrame     = errors.New("carrier holds no valid embedded frame")
)

// CapacityError reports how many payload bytes were asked for and how many
// the carrier can hold.
type CapacityError struct {
	Required  int
	Available int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("not enough space in the carrier to hide the payload; required: %d bytes, available: %d bytes",
		e.Required, e.Available)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
