package coupons

// DiscountType determines how a coupon's value is applied
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// IsValid checks if the discount type is valid
func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// GrantStatus is the lifecycle of a user's coupon grant. ACTIVE grants can
// be attached to a reserved booking (PENDING); PENDING becomes USED when
// that booking is paid, or returns to ACTIVE when the booking is cancelled
// or expires. USED is terminal.
type GrantStatus string

const (
	GrantActive  GrantStatus = "ACTIVE"
	GrantPending GrantStatus = "PENDING"
	GrantUsed    GrantStatus = "USED"
)

// IsValid checks if the grant status is valid
func (s GrantStatus) IsValid() bool {
	switch s {
	case GrantActive, GrantPending, GrantUsed:
		return true
	}
	return false
}

// String returns the string representation of GrantStatus
func (s GrantStatus) String() string {
	return string(s)
}
