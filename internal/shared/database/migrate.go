package database

import (
	"cinebook/internal/bookings"
	"cinebook/internal/cancellation"
	"cinebook/internal/coupons"
	"cinebook/internal/seats"
	"cinebook/internal/showtimes"
	"cinebook/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on primary keys need the extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.User{},
		&showtimes.Showtime{},
		&seats.Seat{},
		&bookings.Booking{},
		&bookings.BookingSeat{},
		&bookings.Payment{},
		&coupons.Coupon{},
		&coupons.UserCoupon{},
		&cancellation.Cancellation{},
	)
}
