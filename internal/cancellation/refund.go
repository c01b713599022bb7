package cancellation

import (
	"math"
	"time"
)

// Refund tiers by hours remaining before the showtime.
const (
	fullRefundHours    = 2.0
	partialRefundHours = 0.5

	fullRefundPercentage    = 100
	partialRefundPercentage = 75
	noRefundPercentage      = 0
)

// RefundQuote is the outcome of the refund tier calculation.
type RefundQuote struct {
	Percentage          int     `json:"percentage"`
	Amount              float64 `json:"amount"`
	HoursBeforeShowtime float64 `json:"hours_before_showtime"`
}

// ComputeRefund applies the tiered refund policy to a paid amount. Two or
// more hours before the showtime refunds in full, between thirty minutes
// and two hours refunds 75%, anything later (including after the showtime
// has started) refunds nothing. The amount is rounded to the nearest unit.
//
// Pure function of its inputs, no clock and no I/O.
func ComputeRefund(originalAmount float64, showtimeAt, now time.Time) RefundQuote {
	hours := showtimeAt.Sub(now).Hours()

	var percentage int
	switch {
	case hours >= fullRefundHours:
		percentage = fullRefundPercentage
	case hours >= partialRefundHours:
		percentage = partialRefundPercentage
	default:
		percentage = noRefundPercentage
	}

	return RefundQuote{
		Percentage:          percentage,
		Amount:              math.Round(originalAmount * float64(percentage) / 100),
		HoursBeforeShowtime: hours,
	}
}
