package coupons

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Coupon defines a discount rule. Grants of a coupon to individual users
// live in UserCoupon rows.
type Coupon struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code        string       `gorm:"uniqueIndex;not null" json:"code"`
	Description string       `json:"description"`
	Type        DiscountType `gorm:"type:varchar(20);check:type IN ('PERCENTAGE', 'FIXED');not null" json:"type"`
	Value       float64      `gorm:"not null" json:"value"`
	MinPurchase float64      `gorm:"default:0" json:"min_purchase"`
	ValidFrom   time.Time    `json:"valid_from"`
	ValidUntil  time.Time    `json:"valid_until"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName sets the table name for Coupon
func (Coupon) TableName() string {
	return "coupons"
}

// IsActiveAt reports whether the coupon's validity window covers t.
func (c *Coupon) IsActiveAt(t time.Time) bool {
	return !t.Before(c.ValidFrom) && !t.After(c.ValidUntil)
}

// Discount computes the discount for a purchase total. Percentage coupons
// floor the result; either type is capped at the total so the final price
// never goes negative.
func (c *Coupon) Discount(total float64) float64 {
	var discount float64
	switch c.Type {
	case DiscountPercentage:
		discount = math.Floor(total * c.Value / 100)
	case DiscountFixed:
		discount = c.Value
	}
	if discount > total {
		discount = total
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// UserCoupon is the grant of a coupon to one user, with its redemption
// lifecycle. BookingID is set while the grant is PENDING or USED.
type UserCoupon struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;index;not null;uniqueIndex:idx_user_coupon" json:"user_id"`
	CouponID  uuid.UUID   `gorm:"type:uuid;index;not null;uniqueIndex:idx_user_coupon" json:"coupon_id"`
	Status    GrantStatus `gorm:"type:varchar(20);check:status IN ('ACTIVE', 'PENDING', 'USED');default:'ACTIVE'" json:"status"`
	BookingID *uuid.UUID  `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	UsedAt    *time.Time  `json:"used_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	Coupon Coupon `gorm:"foreignKey:CouponID" json:"coupon,omitempty"`
}

// TableName sets the table name for UserCoupon
func (UserCoupon) TableName() string {
	return "user_coupons"
}

// ValidateCouponRequest checks a coupon code against a purchase total
type ValidateCouponRequest struct {
	Code  string  `json:"code" binding:"required"`
	Total float64 `json:"total" binding:"required,gt=0"`
}

// ValidateCouponResponse reports the discount the coupon would apply
type ValidateCouponResponse struct {
	CouponID       uuid.UUID `json:"coupon_id"`
	Code           string    `json:"code"`
	DiscountAmount float64   `json:"discount_amount"`
	FinalPrice     float64   `json:"final_price"`
}
