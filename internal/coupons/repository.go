package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateCoupon(ctx context.Context, coupon *Coupon) error
	GetCouponByCode(ctx context.Context, code string) (*Coupon, error)
	GetCouponByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	GrantCoupon(ctx context.Context, grant *UserCoupon) error
	GetGrant(ctx context.Context, userID, couponID uuid.UUID) (*UserCoupon, error)
	GetGrantByBooking(ctx context.Context, bookingID uuid.UUID) (*UserCoupon, error)
	ListGrants(ctx context.Context, userID uuid.UUID) ([]UserCoupon, error)
	MarkPending(ctx context.Context, userID, couponID, bookingID uuid.UUID) error
	MarkUsed(ctx context.Context, bookingID uuid.UUID) error
	Restore(ctx context.Context, bookingID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCoupon(ctx context.Context, coupon *Coupon) error {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

func (r *repository) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	var coupon Coupon
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}
	return &coupon, nil
}

func (r *repository) GetCouponByID(ctx context.Context, id uuid.UUID) (*Coupon, error) {
	var coupon Coupon
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return &coupon, nil
}

func (r *repository) GrantCoupon(ctx context.Context, grant *UserCoupon) error {
	if err := r.db.WithContext(ctx).Create(grant).Error; err != nil {
		return fmt.Errorf("failed to grant coupon: %w", err)
	}
	return nil
}

func (r *repository) GetGrant(ctx context.Context, userID, couponID uuid.UUID) (*UserCoupon, error) {
	var grant UserCoupon
	err := r.db.WithContext(ctx).Preload("Coupon").
		Where("user_id = ? AND coupon_id = ?", userID, couponID).
		First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveGrant
		}
		return nil, fmt.Errorf("failed to get coupon grant: %w", err)
	}
	return &grant, nil
}

func (r *repository) GetGrantByBooking(ctx context.Context, bookingID uuid.UUID) (*UserCoupon, error) {
	var grant UserCoupon
	err := r.db.WithContext(ctx).Preload("Coupon").
		Where("booking_id = ?", bookingID).
		First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveGrant
		}
		return nil, fmt.Errorf("failed to get coupon grant by booking: %w", err)
	}
	return &grant, nil
}

func (r *repository) ListGrants(ctx context.Context, userID uuid.UUID) ([]UserCoupon, error) {
	var grants []UserCoupon
	err := r.db.WithContext(ctx).Preload("Coupon").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&grants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list coupon grants: %w", err)
	}
	return grants, nil
}

// MarkPending attaches an ACTIVE grant to a booking. The write is
// conditional on the grant being ACTIVE and the booking being RESERVED,
// so a coupon can never be attached to a paid or cancelled booking.
func (r *repository) MarkPending(ctx context.Context, userID, couponID, bookingID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&UserCoupon{}).
		Where("user_id = ? AND coupon_id = ? AND status = ?", userID, couponID, GrantActive).
		Where("EXISTS (SELECT 1 FROM bookings WHERE bookings.id = ? AND bookings.status = 'RESERVED')", bookingID).
		Updates(map[string]interface{}{
			"status":     GrantPending,
			"booking_id": bookingID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark coupon pending: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGrantTransition
	}
	return nil
}

// MarkUsed consumes the PENDING grant attached to a booking. No-op when
// the booking carries no coupon.
func (r *repository) MarkUsed(ctx context.Context, bookingID uuid.UUID) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&UserCoupon{}).
		Where("booking_id = ? AND status = ?", bookingID, GrantPending).
		Updates(map[string]interface{}{
			"status":  GrantUsed,
			"used_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark coupon used: %w", err)
	}
	return nil
}

// Restore returns a PENDING grant to ACTIVE when its booking is cancelled
// or expires. Only PENDING rows match, so a USED grant is never restored.
func (r *repository) Restore(ctx context.Context, bookingID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&UserCoupon{}).
		Where("booking_id = ? AND status = ?", bookingID, GrantPending).
		Updates(map[string]interface{}{
			"status":     GrantActive,
			"booking_id": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to restore coupon: %w", err)
	}
	return nil
}
