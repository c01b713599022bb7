package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking is one purchase attempt for a set of seats at a showtime.
// Invariant: while the booking is RESERVED or PAID no other active
// booking references the same seats; the seat ledger's conditional
// writes enforce this.
type Booking struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Reference      string     `gorm:"uniqueIndex;not null" json:"reference"`
	UserID         uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	ShowtimeID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"showtime_id"`
	Status         Status     `gorm:"type:varchar(20);check:status IN ('RESERVED', 'PAID', 'CANCELLED', 'EXPIRED');default:'RESERVED';index" json:"status"`
	TotalPrice     float64    `gorm:"not null" json:"total_price"`
	DiscountAmount float64    `gorm:"default:0" json:"discount_amount"`
	FinalAmount    float64    `gorm:"not null" json:"final_amount"`
	ReservedUntil  *time.Time `gorm:"index" json:"reserved_until,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Seats   []BookingSeat `gorm:"foreignKey:BookingID" json:"seats,omitempty"`
	Payment *Payment      `gorm:"foreignKey:BookingID" json:"payment,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// SeatIDs returns the seat IDs attached to the booking.
func (b *Booking) SeatIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(b.Seats))
	for i := range b.Seats {
		ids[i] = b.Seats[i].SeatID
	}
	return ids
}

// IsExpired reports whether a RESERVED booking's payment window has
// lapsed at t.
func (b *Booking) IsExpired(t time.Time) bool {
	return b.Status == StatusReserved && b.ReservedUntil != nil && b.ReservedUntil.Before(t)
}

// BookingSeat joins a booking to one held or booked seat. Rows exist
// exactly while the parent booking is RESERVED or PAID.
type BookingSeat struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_booking_seat" json:"booking_id"`
	SeatID     uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_booking_seat" json:"seat_id"`
	ShowtimeID uuid.UUID `gorm:"type:uuid;index;not null" json:"showtime_id"`
	SeatLabel  string    `json:"seat_label"`
	Price      float64   `gorm:"not null" json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the table name for BookingSeat
func (BookingSeat) TableName() string {
	return "booking_seats"
}

// Payment records a successful charge, 1:1 with a PAID booking. Created
// only on payment confirmation; refund settlement is tracked on the
// Cancellation row, not here.
type Payment struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"booking_id"`
	Provider         string    `gorm:"not null" json:"provider"`
	GatewayPaymentID string    `gorm:"not null" json:"gateway_payment_id"`
	Method           string    `json:"method"`
	Amount           float64   `gorm:"not null" json:"amount"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
