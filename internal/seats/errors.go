package seats

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrSeatNotFound signals that a requested seat row does not exist for
// the showtime.
var ErrSeatNotFound = errors.New("seat not found")

// ErrHoldLost signals that a hold lapsed or was reclaimed between
// reservation and the conditional commit.
var ErrHoldLost = errors.New("seat hold lost")

// ConflictError reports the seats of a batch hold or commit that could
// not be acquired. The batch is all-or-nothing: when this error is
// returned, no seat in the request was modified.
type ConflictError struct {
	SeatIDs []uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seats unavailable: %v", e.SeatIDs)
}

// IsConflict reports whether err is a seat conflict and returns the
// contended seat IDs.
func IsConflict(err error) (*ConflictError, bool) {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}
