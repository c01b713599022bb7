package showtimes

import (
	"time"

	"github.com/google/uuid"
)

// Showtime is one screening of a movie in a hall. The booking core only
// needs the start time (refund tiers), the base seat price, and the hall
// layout used to seed the seat map.
type Showtime struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	MovieTitle  string    `gorm:"not null" json:"movie_title"`
	HallName    string    `gorm:"not null" json:"hall_name"`
	StartsAt    time.Time `gorm:"index;not null" json:"starts_at"`
	BasePrice   float64   `gorm:"not null" json:"base_price"`
	SeatRows    int       `gorm:"not null" json:"seat_rows"`
	SeatsPerRow int       `gorm:"not null" json:"seats_per_row"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the table name for Showtime
func (Showtime) TableName() string {
	return "showtimes"
}

// HasStarted reports whether the screening has already begun.
func (s *Showtime) HasStarted(now time.Time) bool {
	return !now.Before(s.StartsAt)
}

// CreateShowtimeRequest represents an admin request to schedule a screening
type CreateShowtimeRequest struct {
	MovieTitle  string    `json:"movie_title" binding:"required,min=1,max=200"`
	HallName    string    `json:"hall_name" binding:"required,min=1,max=50"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	BasePrice   float64   `json:"base_price" binding:"required,gt=0"`
	SeatRows    int       `json:"seat_rows" binding:"required,min=1,max=20"`
	SeatsPerRow int       `json:"seats_per_row" binding:"required,min=1,max=50"`
}

// ShowtimeListQuery carries pagination for showtime listings
type ShowtimeListQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
