package bookings

import (
	"errors"
	"net/http"

	"cinebook/internal/coupons"
	"cinebook/internal/seats"
	"cinebook/internal/showtimes"
	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid showtime ID", nil, nil)
		return
	}
	seatIDs, ok := parseSeatIDs(ctx, req.SeatIDs)
	if !ok {
		return
	}

	booking, err := c.service.Reserve(ctx.Request.Context(), userID, showtimeID, seatIDs, req.CouponCode)
	if err != nil {
		respondBookingError(ctx, err, "Failed to create booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Seats reserved successfully", booking.ToResponse(), nil)
}

// UpdateSeats handles PUT /api/v1/bookings/:id/seats
func (c *Controller) UpdateSeats(ctx *gin.Context) {
	var req UpdateSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(ctx)
	if !ok {
		return
	}
	seatIDs, ok := parseSeatIDs(ctx, req.SeatIDs)
	if !ok {
		return
	}

	booking, err := c.service.UpdateSeats(ctx.Request.Context(), userID, bookingID, seatIDs)
	if err != nil {
		respondBookingError(ctx, err, "Failed to update seats")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat selection updated successfully", booking.ToResponse(), nil)
}

// ConfirmPayment handles POST /api/v1/bookings/:id/confirm-payment
func (c *Controller) ConfirmPayment(ctx *gin.Context) {
	var req ConfirmPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(ctx)
	if !ok {
		return
	}

	booking, err := c.service.ConfirmPayment(ctx.Request.Context(), userID, bookingID, req)
	if err != nil {
		respondBookingError(ctx, err, "Failed to confirm payment")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment confirmed successfully", booking.ToResponse(), nil)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	var req CancelBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(ctx)
	if !ok {
		return
	}

	booking, record, err := c.service.Cancel(ctx.Request.Context(), userID, bookingID, req.Reason)
	if err != nil {
		respondBookingError(ctx, err, "Failed to cancel booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled successfully", gin.H{
		"booking":      booking.ToResponse(),
		"cancellation": record,
	}, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	bookingID, ok := bookingIDParam(ctx)
	if !ok {
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), userID, bookingID)
	if err != nil {
		respondBookingError(ctx, err, "Failed to get booking")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking.ToResponse(), nil)
}

// ListMyBookings handles GET /api/v1/users/bookings
func (c *Controller) ListMyBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookings, total, err := c.service.ListMyBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	views := make([]BookingResponse, len(bookings))
	for i := range bookings {
		views[i] = bookings[i].ToResponse()
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings": views,
		"total":    total,
		"page":     query.Page,
		"limit":    query.Limit,
	}, nil)
}

func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(ctx.GetString("user_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Invalid user context", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

func bookingIDParam(ctx *gin.Context) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid booking ID", nil, nil)
		return uuid.Nil, false
	}
	return bookingID, true
}

func parseSeatIDs(ctx *gin.Context, raw []string) ([]uuid.UUID, bool) {
	seatIDs := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid seat ID", nil, s)
			return nil, false
		}
		seatIDs = append(seatIDs, id)
	}
	return seatIDs, true
}

func respondBookingError(ctx *gin.Context, err error, fallback string) {
	if conflict, ok := seats.IsConflict(err); ok {
		response.RespondJSON(ctx, "error", http.StatusConflict, "Some seats are unavailable", nil, gin.H{
			"conflicting_seat_ids": conflict.SeatIDs,
		})
		return
	}

	switch {
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, showtimes.ErrShowtimeNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Not found", nil, err.Error())
	case errors.Is(err, ErrNotBookingOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "Booking belongs to another user", nil, nil)
	case errors.Is(err, ErrReservationExpired):
		response.RespondJSON(ctx, "error", http.StatusGone, "Reservation expired, please select seats again", nil, nil)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrShowtimeStarted), errors.Is(err, ErrPaymentRecorded):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, fallback, nil, err.Error())
	case errors.Is(err, coupons.ErrCouponNotFound), errors.Is(err, coupons.ErrCouponExpired),
		errors.Is(err, coupons.ErrMinPurchaseNotMet), errors.Is(err, coupons.ErrNoActiveGrant),
		errors.Is(err, coupons.ErrGrantTransition):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, "Coupon not applicable", nil, err.Error())
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}
