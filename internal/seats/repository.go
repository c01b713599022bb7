package seats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	SeedSeats(ctx context.Context, showtimeID uuid.UUID, rows int, seatsPerRow int, price float64) error
	GetSeats(ctx context.Context, showtimeID uuid.UUID) ([]Seat, error)
	GetSeatsByIDs(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error)
	TryHold(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID, expiresAt time.Time) ([]Seat, error)
	Release(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error
	ReleaseAny(ctx context.Context, seatIDs []uuid.UUID) error
	ReleaseCancelled(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) error
	Commit(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

var seatRowLabels = []string{
	"A", "B", "C", "D", "E", "F", "G", "H", "J", "K",
	"L", "M", "N", "P", "Q", "R", "S", "T", "U", "V",
}

func (r *repository) SeedSeats(ctx context.Context, showtimeID uuid.UUID, rows int, seatsPerRow int, price float64) error {
	if rows > len(seatRowLabels) {
		return fmt.Errorf("hall has %d rows but only %d row labels are supported", rows, len(seatRowLabels))
	}

	seats := make([]Seat, 0, rows*seatsPerRow)
	for i := 0; i < rows; i++ {
		for n := 1; n <= seatsPerRow; n++ {
			seats = append(seats, Seat{
				ShowtimeID: showtimeID,
				Row:        seatRowLabels[i],
				Number:     n,
				Status:     StatusAvailable,
				Price:      price,
			})
		}
	}

	if err := r.db.WithContext(ctx).CreateInBatches(seats, 200).Error; err != nil {
		return fmt.Errorf("failed to seed seats for showtime %s: %w", showtimeID, err)
	}
	return nil
}

func (r *repository) GetSeats(ctx context.Context, showtimeID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("showtime_id = ?", showtimeID).
		Order("row ASC, number ASC").
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get seats for showtime %s: %w", showtimeID, err)
	}
	return seats, nil
}

func (r *repository) GetSeatsByIDs(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Where("showtime_id = ? AND id IN ?", showtimeID, seatIDs).
		Find(&seats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get seats by ids: %w", err)
	}
	return seats, nil
}

// TryHold attempts to reserve every seat in seatIDs for userID in a single
// conditional write. A seat is claimable when it is AVAILABLE, already held
// by the same user, or RESERVED with a lapsed hold. The update and the
// all-or-nothing check run inside one transaction; if any seat cannot be
// claimed the transaction rolls back and a ConflictError names the losers.
func (r *repository) TryHold(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID, expiresAt time.Time) ([]Seat, error) {
	var held []Seat
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Seat{}).
			Where("showtime_id = ? AND id IN ?", showtimeID, seatIDs).
			Where("status = ? OR (status = ? AND (holder_user_id = ? OR hold_expires_at < ?))",
				StatusAvailable, StatusReserved, userID, now).
			Updates(map[string]interface{}{
				"status":          StatusReserved,
				"holder_user_id":  userID,
				"hold_expires_at": expiresAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to hold seats: %w", result.Error)
		}

		if result.RowsAffected != int64(len(seatIDs)) {
			conflict, err := r.classifyConflict(tx, showtimeID, seatIDs, userID, now)
			if err != nil {
				return err
			}
			return conflict
		}

		if err := tx.Where("showtime_id = ? AND id IN ?", showtimeID, seatIDs).
			Order("row ASC, number ASC").
			Find(&held).Error; err != nil {
			return fmt.Errorf("failed to load held seats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return held, nil
}

// classifyConflict explains a partial TryHold by re-reading the batch and
// naming every seat the caller could not claim. Runs inside the same
// transaction so the rows reflect the state that blocked the update.
func (r *repository) classifyConflict(tx *gorm.DB, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID, now time.Time) (*ConflictError, error) {
	var seats []Seat
	if err := tx.Where("showtime_id = ? AND id IN ?", showtimeID, seatIDs).
		Find(&seats).Error; err != nil {
		return nil, fmt.Errorf("failed to inspect contended seats: %w", err)
	}

	found := make(map[uuid.UUID]bool, len(seats))
	conflict := &ConflictError{}
	for i := range seats {
		found[seats[i].ID] = true
		if !seats[i].AcquirableBy(userID, now) {
			conflict.SeatIDs = append(conflict.SeatIDs, seats[i].ID)
		}
	}
	// IDs absent from the showtime block the batch too.
	for _, id := range seatIDs {
		if !found[id] {
			conflict.SeatIDs = append(conflict.SeatIDs, id)
		}
	}
	return conflict, nil
}

// Release frees seats held by userID. Seats already released, expired and
// reclaimed, or booked are left untouched, so the call is idempotent.
func (r *repository) Release(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&Seat{}).
		Where("showtime_id = ? AND id IN ? AND status = ? AND holder_user_id = ?",
			showtimeID, seatIDs, StatusReserved, userID).
		Updates(map[string]interface{}{
			"status":          StatusAvailable,
			"holder_user_id":  nil,
			"hold_expires_at": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}
	return nil
}

// ReleaseAny frees RESERVED seats regardless of holder. Used by the expiry
// sweeper after it has claimed the owning reservation.
func (r *repository) ReleaseAny(ctx context.Context, seatIDs []uuid.UUID) error {
	if len(seatIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&Seat{}).
		Where("id IN ? AND status = ?", seatIDs, StatusReserved).
		Updates(map[string]interface{}{
			"status":          StatusAvailable,
			"holder_user_id":  nil,
			"hold_expires_at": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to release swept seats: %w", err)
	}
	return nil
}

// ReleaseCancelled returns the seats of a cancelled booking to the pool.
// Covers both RESERVED holds and BOOKED seats of a paid booking.
func (r *repository) ReleaseCancelled(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&Seat{}).
		Where("showtime_id = ? AND id IN ? AND status IN ?",
			showtimeID, seatIDs, []Status{StatusReserved, StatusBooked}).
		Updates(map[string]interface{}{
			"status":          StatusAvailable,
			"holder_user_id":  nil,
			"hold_expires_at": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to release cancelled seats: %w", err)
	}
	return nil
}

// Commit flips the caller's held seats to BOOKED. The write is conditional
// on the hold still belonging to userID; a short count means the hold was
// lost and the whole transition is rolled back.
func (r *repository) Commit(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Seat{}).
			Where("showtime_id = ? AND id IN ? AND status = ? AND holder_user_id = ?",
				showtimeID, seatIDs, StatusReserved, userID).
			Updates(map[string]interface{}{
				"status":          StatusBooked,
				"holder_user_id":  nil,
				"hold_expires_at": nil,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to commit seats: %w", result.Error)
		}
		if result.RowsAffected != int64(len(seatIDs)) {
			return fmt.Errorf("seat hold lost before payment: %w", ErrHoldLost)
		}
		return nil
	})
}
