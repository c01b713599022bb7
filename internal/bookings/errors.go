package bookings

import "errors"

var (
	// ErrBookingNotFound signals an unknown booking ID or reference.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrNotBookingOwner signals the booking belongs to another user.
	ErrNotBookingOwner = errors.New("booking belongs to another user")

	// ErrReservationExpired signals the payment window has lapsed. The
	// caller must restart seat selection; the stale hold is reclaimed by
	// the sweeper.
	ErrReservationExpired = errors.New("reservation expired")

	// ErrInvalidTransition signals the booking is not in a state that
	// permits the requested operation.
	ErrInvalidTransition = errors.New("invalid booking state transition")

	// ErrShowtimeStarted signals the showtime has already begun.
	ErrShowtimeStarted = errors.New("showtime already started")

	// ErrPaymentRecorded signals a payment row already exists for the
	// booking.
	ErrPaymentRecorded = errors.New("payment already recorded for booking")
)
