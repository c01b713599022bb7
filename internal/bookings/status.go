package bookings

// Status is the booking lifecycle state. RESERVED bookings hold seats
// against a payment deadline; PAID and CANCELLED are reachable from
// RESERVED, CANCELLED also from PAID, and EXPIRED is set by the sweeper
// when a RESERVED booking outlives its payment window. CANCELLED and
// EXPIRED are terminal.
type Status string

const (
	StatusReserved  Status = "RESERVED"
	StatusPaid      Status = "PAID"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusReserved, StatusPaid, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo reports whether the state machine permits moving from s
// to target.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusReserved:
		return target == StatusPaid || target == StatusCancelled || target == StatusExpired
	case StatusPaid:
		return target == StatusCancelled
	default:
		return false
	}
}

// IsActive reports whether the booking still owns its seats.
func (s Status) IsActive() bool {
	return s == StatusReserved || s == StatusPaid
}
