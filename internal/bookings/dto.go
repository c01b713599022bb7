package bookings

import (
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest reserves a batch of seats as a new booking
type CreateBookingRequest struct {
	ShowtimeID string   `json:"showtime_id" binding:"required,uuid"`
	SeatIDs    []string `json:"seat_ids" binding:"required,min=1,max=10,dive,uuid"`
	CouponCode string   `json:"coupon_code,omitempty"`
}

// UpdateSeatsRequest replaces the seat selection of a reserved booking
type UpdateSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,max=10,dive,uuid"`
}

// ConfirmPaymentRequest records a completed gateway charge
type ConfirmPaymentRequest struct {
	Provider         string  `json:"provider" binding:"required,oneof=stripe omise paypal"`
	GatewayPaymentID string  `json:"gateway_payment_id" binding:"required"`
	Method           string  `json:"method" binding:"required,oneof=card promptpay paypal"`
	Amount           float64 `json:"amount" binding:"required,gt=0"`
}

// CancelBookingRequest carries the user's cancellation reason
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// BookingListQuery paginates and filters a user's booking history
type BookingListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=RESERVED PAID CANCELLED EXPIRED"`
	Page   int    `form:"page,default=1" binding:"min=1"`
	Limit  int    `form:"limit,default=20" binding:"min=1,max=100"`
}

// BookingResponse is the API view of a booking
type BookingResponse struct {
	ID             uuid.UUID     `json:"id"`
	Reference      string        `json:"reference"`
	ShowtimeID     uuid.UUID     `json:"showtime_id"`
	Status         Status        `json:"status"`
	TotalPrice     float64       `json:"total_price"`
	DiscountAmount float64       `json:"discount_amount"`
	FinalAmount    float64       `json:"final_amount"`
	ReservedUntil  *time.Time    `json:"reserved_until,omitempty"`
	PaidAt         *time.Time    `json:"paid_at,omitempty"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
	Seats          []BookingSeat `json:"seats"`
	CreatedAt      time.Time     `json:"created_at"`
}

// ToResponse converts a booking to its API view
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		Reference:      b.Reference,
		ShowtimeID:     b.ShowtimeID,
		Status:         b.Status,
		TotalPrice:     b.TotalPrice,
		DiscountAmount: b.DiscountAmount,
		FinalAmount:    b.FinalAmount,
		ReservedUntil:  b.ReservedUntil,
		PaidAt:         b.PaidAt,
		CancelledAt:    b.CancelledAt,
		Seats:          b.Seats,
		CreatedAt:      b.CreatedAt,
	}
}
