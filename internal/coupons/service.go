package coupons

import (
	"context"
	"fmt"
	"time"

	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	Validate(ctx context.Context, userID uuid.UUID, code string, total float64) (*ValidateCouponResponse, error)
	Reserve(ctx context.Context, userID, couponID, bookingID uuid.UUID) error
	Redeem(ctx context.Context, bookingID uuid.UUID) error
	Release(ctx context.Context, bookingID uuid.UUID) error
	ListGrants(ctx context.Context, userID uuid.UUID) ([]UserCoupon, error)
	CreateCoupon(ctx context.Context, coupon *Coupon) error
	GrantCoupon(ctx context.Context, userID, couponID uuid.UUID) error
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, logger: log}
}

// Validate checks a coupon code against a purchase total for a user and
// returns the discount it would apply. It does not mutate the grant.
func (s *service) Validate(ctx context.Context, userID uuid.UUID, code string, total float64) (*ValidateCouponResponse, error) {
	coupon, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !coupon.IsActiveAt(time.Now()) {
		return nil, ErrCouponExpired
	}
	if total < coupon.MinPurchase {
		return nil, ErrMinPurchaseNotMet
	}

	grant, err := s.repo.GetGrant(ctx, userID, coupon.ID)
	if err != nil {
		return nil, err
	}
	if grant.Status != GrantActive {
		return nil, ErrNoActiveGrant
	}

	discount := coupon.Discount(total)
	return &ValidateCouponResponse{
		CouponID:       coupon.ID,
		Code:           coupon.Code,
		DiscountAmount: discount,
		FinalPrice:     total - discount,
	}, nil
}

// Reserve marks the grant PENDING against a reserved booking. Called only
// by the booking workflow, which owns transition ordering.
func (s *service) Reserve(ctx context.Context, userID, couponID, bookingID uuid.UUID) error {
	if err := s.repo.MarkPending(ctx, userID, couponID, bookingID); err != nil {
		return fmt.Errorf("failed to reserve coupon %s for booking %s: %w", couponID, bookingID, err)
	}
	return nil
}

// Redeem consumes the booking's PENDING coupon on payment confirmation.
func (s *service) Redeem(ctx context.Context, bookingID uuid.UUID) error {
	return s.repo.MarkUsed(ctx, bookingID)
}

// Release restores the booking's PENDING coupon to ACTIVE. Idempotent,
// and a USED coupon stays used.
func (s *service) Release(ctx context.Context, bookingID uuid.UUID) error {
	return s.repo.Restore(ctx, bookingID)
}

func (s *service) ListGrants(ctx context.Context, userID uuid.UUID) ([]UserCoupon, error) {
	return s.repo.ListGrants(ctx, userID)
}

func (s *service) CreateCoupon(ctx context.Context, coupon *Coupon) error {
	if !coupon.Type.IsValid() {
		return fmt.Errorf("invalid discount type %q", coupon.Type)
	}
	if coupon.Value <= 0 {
		return fmt.Errorf("coupon value must be positive")
	}
	if coupon.Type == DiscountPercentage && coupon.Value > 100 {
		return fmt.Errorf("percentage coupon value cannot exceed 100")
	}
	return s.repo.CreateCoupon(ctx, coupon)
}

func (s *service) GrantCoupon(ctx context.Context, userID, couponID uuid.UUID) error {
	if _, err := s.repo.GetCouponByID(ctx, couponID); err != nil {
		return err
	}
	grant := &UserCoupon{
		UserID:   userID,
		CouponID: couponID,
		Status:   GrantActive,
	}
	if err := s.repo.GrantCoupon(ctx, grant); err != nil {
		return err
	}
	s.logger.InfoWithContext(ctx, "Coupon granted", map[string]interface{}{
		"user_id":   userID.String(),
		"coupon_id": couponID.String(),
	})
	return nil
}
