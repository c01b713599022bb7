package seats

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Seat is one physical seat for one showtime. Rows are seeded when the
// showtime is scheduled and mutated only through the ledger operations
// (TryHold / Release / Commit) and the expiry sweeper.
//
// Invariants: RESERVED rows always carry a holder and a hold expiry;
// AVAILABLE and BOOKED rows carry neither.
type Seat struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowtimeID    uuid.UUID  `gorm:"type:uuid;index;not null;uniqueIndex:idx_showtime_seat" json:"showtime_id"`
	Row           string     `gorm:"not null;uniqueIndex:idx_showtime_seat" json:"row"`
	Number        int        `gorm:"not null;uniqueIndex:idx_showtime_seat" json:"number"`
	Status        Status     `gorm:"type:varchar(20);check:status IN ('AVAILABLE', 'RESERVED', 'BOOKED');default:'AVAILABLE'" json:"status"`
	HolderUserID  *uuid.UUID `gorm:"type:uuid;index" json:"holder_user_id,omitempty"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
	Price         float64    `gorm:"not null" json:"price"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "showtime_seats"
}

// Label returns the human-readable seat label, e.g. "C7".
func (s *Seat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}

// HeldBy reports whether the seat is currently held by userID with an
// unexpired hold.
func (s *Seat) HeldBy(userID uuid.UUID, now time.Time) bool {
	return s.Status == StatusReserved &&
		s.HolderUserID != nil && *s.HolderUserID == userID &&
		s.HoldExpiresAt != nil && !s.HoldExpiresAt.Before(now)
}

// AcquirableBy reports whether userID could take the seat right now:
// available, already held by the same user, or held with a lapsed hold.
func (s *Seat) AcquirableBy(userID uuid.UUID, now time.Time) bool {
	switch s.Status {
	case StatusAvailable:
		return true
	case StatusReserved:
		if s.HolderUserID != nil && *s.HolderUserID == userID {
			return true
		}
		return s.HoldExpiresAt != nil && s.HoldExpiresAt.Before(now)
	default:
		return false
	}
}

// SeatView is the read model returned by the seat-map endpoint.
type SeatView struct {
	ID     uuid.UUID `json:"id"`
	Row    string    `json:"row"`
	Number int       `json:"number"`
	Status Status    `json:"status"`
	Price  float64   `json:"price"`
}

// ToView converts the seat to its read model, resolving lapsed holds.
func (s *Seat) ToView(now time.Time) SeatView {
	return SeatView{
		ID:     s.ID,
		Row:    s.Row,
		Number: s.Number,
		Status: s.Status.Effective(s.HoldExpiresAt, now),
		Price:  s.Price,
	}
}

// ReserveSeatsRequest represents a direct seat hold request
type ReserveSeatsRequest struct {
	ShowtimeID string   `json:"showtime_id" binding:"required,uuid"`
	SeatIDs    []string `json:"seat_ids" binding:"required,min=1,max=10,dive,uuid"`
}

// ReserveSeatsResponse confirms a successful hold
type ReserveSeatsResponse struct {
	ShowtimeID string     `json:"showtime_id"`
	SeatIDs    []string   `json:"seat_ids"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Seats      []SeatView `json:"seats"`
	TotalPrice float64    `json:"total_price"`
}
