package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateWithSeats(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	ReplaceSeats(ctx context.Context, bookingID uuid.UUID, seats []BookingSeat, totalPrice, discount, finalAmount float64, reservedUntil time.Time) error
	TransitionReservedToPaid(ctx context.Context, bookingID uuid.UUID, now time.Time) error
	TransitionToCancelled(ctx context.Context, bookingID uuid.UUID, from Status, now time.Time) error
	FindExpired(ctx context.Context, now time.Time, limit int) ([]Booking, error)
	ClaimExpired(ctx context.Context, bookingID uuid.UUID, now time.Time) (bool, error)
	CreatePayment(ctx context.Context, payment *Payment) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateWithSeats(ctx context.Context, booking *Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seats := booking.Seats
		booking.Seats = nil
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		for i := range seats {
			seats[i].BookingID = booking.ID
		}
		if err := tx.Create(&seats).Error; err != nil {
			return err
		}
		booking.Seats = seats
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Preload("Payment").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	base := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)
	if query.Status != "" {
		base = base.Where("status = ?", query.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var bookings []Booking
	err := base.
		Preload("Seats").
		Preload("Payment").
		Order("created_at DESC").
		Offset((query.Page - 1) * query.Limit).
		Limit(query.Limit).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, total, nil
}

// ReplaceSeats swaps the seat selection of a RESERVED booking and
// refreshes its payment window. The booking update is conditional on the
// status, so a booking that was paid, cancelled or swept concurrently is
// left untouched.
func (r *repository) ReplaceSeats(ctx context.Context, bookingID uuid.UUID, seats []BookingSeat, totalPrice, discount, finalAmount float64, reservedUntil time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", bookingID, StatusReserved).
			Updates(map[string]interface{}{
				"total_price":     totalPrice,
				"discount_amount": discount,
				"final_amount":    finalAmount,
				"reserved_until":  reservedUntil,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		if err := tx.Where("booking_id = ?", bookingID).Delete(&BookingSeat{}).Error; err != nil {
			return fmt.Errorf("failed to clear booking seats: %w", err)
		}
		for i := range seats {
			seats[i].BookingID = bookingID
		}
		if err := tx.Create(&seats).Error; err != nil {
			return fmt.Errorf("failed to attach booking seats: %w", err)
		}
		return nil
	})
}

// TransitionReservedToPaid flips a RESERVED booking to PAID, conditional
// on the payment window still being open. A payment racing an expiry
// sweep loses to whichever conditional write lands first.
func (r *repository) TransitionReservedToPaid(ctx context.Context, bookingID uuid.UUID, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ? AND reserved_until >= ?", bookingID, StatusReserved, now).
		Updates(map[string]interface{}{
			"status":         StatusPaid,
			"reserved_until": nil,
			"paid_at":        now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark booking paid: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a lapsed window from a wrong state.
		var booking Booking
		if err := r.db.WithContext(ctx).Select("status", "reserved_until").
			Where("id = ?", bookingID).First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to inspect booking: %w", err)
		}
		if booking.Status == StatusExpired || booking.IsExpired(now) {
			return ErrReservationExpired
		}
		return ErrInvalidTransition
	}
	return nil
}

// TransitionToCancelled moves a booking from the observed status to
// CANCELLED and removes its seat join rows. The conditional status match
// loses deliberately to a concurrent payment or sweep.
func (r *repository) TransitionToCancelled(ctx context.Context, bookingID uuid.UUID, from Status, now time.Time) error {
	if !from.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ? AND status = ?", bookingID, from).
			Updates(map[string]interface{}{
				"status":         StatusCancelled,
				"reserved_until": nil,
				"cancelled_at":   now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to cancel booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}
		if err := tx.Where("booking_id = ?", bookingID).Delete(&BookingSeat{}).Error; err != nil {
			return fmt.Errorf("failed to remove booking seats: %w", err)
		}
		return nil
	})
}

func (r *repository) FindExpired(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Preload("Seats").
		Where("status = ? AND reserved_until < ?", StatusReserved, now).
		Order("reserved_until ASC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find expired bookings: %w", err)
	}
	return bookings, nil
}

// ClaimExpired marks one lapsed RESERVED booking EXPIRED and drops its
// seat joins. The conditional update means concurrent sweepers claim each
// booking at most once; false reports the row was already claimed or no
// longer eligible.
func (r *repository) ClaimExpired(ctx context.Context, bookingID uuid.UUID, now time.Time) (bool, error) {
	var claimed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Booking{}).
			Where("id = ? AND status = ? AND reserved_until < ?", bookingID, StatusReserved, now).
			Updates(map[string]interface{}{
				"status":         StatusExpired,
				"reserved_until": nil,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to claim expired booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}
		claimed = true
		if err := tx.Where("booking_id = ?", bookingID).Delete(&BookingSeat{}).Error; err != nil {
			return fmt.Errorf("failed to remove expired booking seats: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}
