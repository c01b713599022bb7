package coupons

import (
	"context"
	"testing"
	"time"

	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCouponRepo struct {
	coupons map[string]*Coupon
	grants  map[uuid.UUID]*UserCoupon // keyed by grant ID
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{
		coupons: make(map[string]*Coupon),
		grants:  make(map[uuid.UUID]*UserCoupon),
	}
}

func (f *fakeCouponRepo) CreateCoupon(_ context.Context, c *Coupon) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.coupons[c.Code] = c
	return nil
}

func (f *fakeCouponRepo) GetCouponByCode(_ context.Context, code string) (*Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, ErrCouponNotFound
	}
	return c, nil
}

func (f *fakeCouponRepo) GetCouponByID(_ context.Context, id uuid.UUID) (*Coupon, error) {
	for _, c := range f.coupons {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrCouponNotFound
}

func (f *fakeCouponRepo) GrantCoupon(_ context.Context, g *UserCoupon) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	f.grants[g.ID] = g
	return nil
}

func (f *fakeCouponRepo) GetGrant(_ context.Context, userID, couponID uuid.UUID) (*UserCoupon, error) {
	for _, g := range f.grants {
		if g.UserID == userID && g.CouponID == couponID {
			return g, nil
		}
	}
	return nil, ErrNoActiveGrant
}

func (f *fakeCouponRepo) GetGrantByBooking(_ context.Context, bookingID uuid.UUID) (*UserCoupon, error) {
	for _, g := range f.grants {
		if g.BookingID != nil && *g.BookingID == bookingID {
			return g, nil
		}
	}
	return nil, ErrNoActiveGrant
}

func (f *fakeCouponRepo) ListGrants(_ context.Context, userID uuid.UUID) ([]UserCoupon, error) {
	var out []UserCoupon
	for _, g := range f.grants {
		if g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeCouponRepo) MarkPending(_ context.Context, userID, couponID, bookingID uuid.UUID) error {
	for _, g := range f.grants {
		if g.UserID == userID && g.CouponID == couponID && g.Status == GrantActive {
			g.Status = GrantPending
			id := bookingID
			g.BookingID = &id
			return nil
		}
	}
	return ErrGrantTransition
}

func (f *fakeCouponRepo) MarkUsed(_ context.Context, bookingID uuid.UUID) error {
	for _, g := range f.grants {
		if g.BookingID != nil && *g.BookingID == bookingID && g.Status == GrantPending {
			g.Status = GrantUsed
			now := time.Now()
			g.UsedAt = &now
		}
	}
	return nil
}

func (f *fakeCouponRepo) Restore(_ context.Context, bookingID uuid.UUID) error {
	for _, g := range f.grants {
		if g.BookingID != nil && *g.BookingID == bookingID && g.Status == GrantPending {
			g.Status = GrantActive
			g.BookingID = nil
		}
	}
	return nil
}

func activeCoupon(t DiscountType, value, minPurchase float64) *Coupon {
	return &Coupon{
		ID:          uuid.New(),
		Code:        "TEST",
		Type:        t,
		Value:       value,
		MinPurchase: minPurchase,
		ValidFrom:   time.Now().Add(-time.Hour),
		ValidUntil:  time.Now().Add(time.Hour),
	}
}

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   Coupon
		total    float64
		expected float64
	}{
		{"percentage floors the result", Coupon{Type: DiscountPercentage, Value: 15}, 333, 49},
		{"percentage of round total", Coupon{Type: DiscountPercentage, Value: 25}, 1000, 250},
		{"percentage capped at total", Coupon{Type: DiscountPercentage, Value: 100}, 500, 500},
		{"fixed amount", Coupon{Type: DiscountFixed, Value: 100}, 750, 100},
		{"fixed capped at total", Coupon{Type: DiscountFixed, Value: 900}, 300, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.coupon.Discount(tt.total))
		})
	}
}

func TestValidateCoupon(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCouponRepo()
	svc := NewService(repo, logger.New())
	userID := uuid.New()

	coupon := activeCoupon(DiscountPercentage, 20, 200)
	repo.coupons[coupon.Code] = coupon
	require.NoError(t, repo.GrantCoupon(ctx, &UserCoupon{
		UserID: userID, CouponID: coupon.ID, Status: GrantActive,
	}))

	result, err := svc.Validate(ctx, userID, "TEST", 500)
	require.NoError(t, err)
	assert.Equal(t, float64(100), result.DiscountAmount)
	assert.Equal(t, float64(400), result.FinalPrice)

	_, err = svc.Validate(ctx, userID, "NOPE", 500)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	_, err = svc.Validate(ctx, userID, "TEST", 150)
	assert.ErrorIs(t, err, ErrMinPurchaseNotMet)

	_, err = svc.Validate(ctx, uuid.New(), "TEST", 500)
	assert.ErrorIs(t, err, ErrNoActiveGrant)

	coupon.ValidUntil = time.Now().Add(-time.Minute)
	_, err = svc.Validate(ctx, userID, "TEST", 500)
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestGrantLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCouponRepo()
	svc := NewService(repo, logger.New())
	userID := uuid.New()
	bookingID := uuid.New()

	coupon := activeCoupon(DiscountFixed, 50, 0)
	repo.coupons[coupon.Code] = coupon
	grant := &UserCoupon{UserID: userID, CouponID: coupon.ID, Status: GrantActive}
	require.NoError(t, repo.GrantCoupon(ctx, grant))

	// ACTIVE -> PENDING on reservation
	require.NoError(t, svc.Reserve(ctx, userID, coupon.ID, bookingID))
	assert.Equal(t, GrantPending, grant.Status)
	require.NotNil(t, grant.BookingID)
	assert.Equal(t, bookingID, *grant.BookingID)

	// reserving again fails, grant is no longer ACTIVE
	err := svc.Reserve(ctx, userID, coupon.ID, uuid.New())
	assert.ErrorIs(t, err, ErrGrantTransition)

	// PENDING -> ACTIVE on release
	require.NoError(t, svc.Release(ctx, bookingID))
	assert.Equal(t, GrantActive, grant.Status)
	assert.Nil(t, grant.BookingID)

	// reserve again, then redeem on payment
	require.NoError(t, svc.Reserve(ctx, userID, coupon.ID, bookingID))
	require.NoError(t, svc.Redeem(ctx, bookingID))
	assert.Equal(t, GrantUsed, grant.Status)
	assert.NotNil(t, grant.UsedAt)

	// a USED grant is never restored
	require.NoError(t, svc.Release(ctx, bookingID))
	assert.Equal(t, GrantUsed, grant.Status)
}
