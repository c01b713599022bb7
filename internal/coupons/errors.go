package coupons

import "errors"

var (
	// ErrCouponNotFound signals an unknown coupon code or ID.
	ErrCouponNotFound = errors.New("coupon not found")

	// ErrCouponExpired signals the coupon is outside its validity window.
	ErrCouponExpired = errors.New("coupon expired or not yet valid")

	// ErrMinPurchaseNotMet signals the booking total is below the
	// coupon's minimum purchase amount.
	ErrMinPurchaseNotMet = errors.New("booking total below coupon minimum purchase")

	// ErrNoActiveGrant signals the user holds no ACTIVE grant for the
	// coupon. A grant that is PENDING on another booking or already USED
	// also fails with this error.
	ErrNoActiveGrant = errors.New("no active coupon grant for user")

	// ErrGrantTransition signals a conditional grant transition matched
	// no row, meaning the grant was not in the expected state.
	ErrGrantTransition = errors.New("coupon grant not in expected state")
)
