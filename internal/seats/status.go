package seats

import "time"

// Status is the persisted seat state for one showtime. It is a closed
// enum: a seat is AVAILABLE, RESERVED (held, unpaid) or BOOKED (paid).
type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusReserved  Status = "RESERVED"
	StatusBooked    Status = "BOOKED"
)

// IsValid checks if the seat status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusBooked:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Effective resolves a stored status against the hold expiry: a RESERVED
// seat whose hold has lapsed reads as AVAILABLE even before the sweeper
// reclaims the row.
func (s Status) Effective(holdExpiresAt *time.Time, now time.Time) Status {
	if s == StatusReserved && holdExpiresAt != nil && holdExpiresAt.Before(now) {
		return StatusAvailable
	}
	return s
}
