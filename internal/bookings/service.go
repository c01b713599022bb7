package bookings

import (
	"context"
	"fmt"
	"math"
	"time"

	"cinebook/internal/cancellation"
	"cinebook/internal/coupons"
	"cinebook/internal/seats"
	"cinebook/internal/showtimes"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// SeatLedger is the slice of the seat service the booking workflow uses.
type SeatLedger interface {
	ReserveSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) ([]seats.Seat, time.Time, error)
	ReleaseSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error
	CommitSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error
	ReleaseSweptSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) error
	ReleaseCancelledSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) error
}

// ShowtimeCatalog resolves showtimes for validation and refund timing.
type ShowtimeCatalog interface {
	GetShowtime(ctx context.Context, id uuid.UUID) (*showtimes.Showtime, error)
}

// CouponService is the slice of the coupon service the booking workflow
// uses. The workflow is the only caller of Reserve, Redeem and Release,
// which keeps a single authority over grant transitions.
type CouponService interface {
	Validate(ctx context.Context, userID uuid.UUID, code string, total float64) (*coupons.ValidateCouponResponse, error)
	Reserve(ctx context.Context, userID, couponID, bookingID uuid.UUID) error
	Redeem(ctx context.Context, bookingID uuid.UUID) error
	Release(ctx context.Context, bookingID uuid.UUID) error
}

// CancellationService records cancellations and drives gateway refunds.
type CancellationService interface {
	RecordCancellation(ctx context.Context, params cancellation.RecordParams) (*cancellation.Cancellation, error)
	RequestRefund(ctx context.Context, c *cancellation.Cancellation, provider, gatewayPaymentID string)
}

// EventPublisher emits booking lifecycle events. Implementations must be
// fire-and-forget; a broker outage never blocks a booking.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event BookingEvent)
}

// BookingEvent is the payload published on booking lifecycle changes
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	UserID     uuid.UUID `json:"user_id"`
	ShowtimeID uuid.UUID `json:"showtime_id"`
	Status     Status    `json:"status"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Booking event types
const (
	EventBookingReserved  = "booking.reserved"
	EventBookingPaid      = "booking.paid"
	EventBookingCancelled = "booking.cancelled"
	EventBookingExpired   = "booking.expired"
)

type Service interface {
	Reserve(ctx context.Context, userID, showtimeID uuid.UUID, seatIDs []uuid.UUID, couponCode string) (*Booking, error)
	UpdateSeats(ctx context.Context, userID, bookingID uuid.UUID, seatIDs []uuid.UUID) (*Booking, error)
	ConfirmPayment(ctx context.Context, userID, bookingID uuid.UUID, req ConfirmPaymentRequest) (*Booking, error)
	Cancel(ctx context.Context, userID, bookingID uuid.UUID, reason string) (*Booking, *cancellation.Cancellation, error)
	GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error)
	ListMyBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	SweepExpired(ctx context.Context, batchSize int) (int, error)
}

type service struct {
	repo          Repository
	seatLedger    SeatLedger
	catalog       ShowtimeCatalog
	coupons       CouponService
	cancellations CancellationService
	events        EventPublisher
	logger        *logger.Logger
}

func NewService(
	repo Repository,
	seatLedger SeatLedger,
	catalog ShowtimeCatalog,
	couponService CouponService,
	cancellationService CancellationService,
	events EventPublisher,
	log *logger.Logger,
) Service {
	return &service{
		repo:          repo,
		seatLedger:    seatLedger,
		catalog:       catalog,
		coupons:       couponService,
		cancellations: cancellationService,
		events:        events,
		logger:        log,
	}
}

// Reserve holds the requested seats and creates a RESERVED booking whose
// payment window matches the seat holds. On seat conflict nothing is
// created and the error names the contended seats.
func (s *service) Reserve(ctx context.Context, userID, showtimeID uuid.UUID, seatIDs []uuid.UUID, couponCode string) (*Booking, error) {
	showtime, err := s.catalog.GetShowtime(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	if showtime.HasStarted(time.Now()) {
		return nil, ErrShowtimeStarted
	}

	held, expiresAt, err := s.seatLedger.ReserveSeats(ctx, showtimeID, seatIDs, userID)
	if err != nil {
		return nil, err
	}

	totalPrice := sumPrices(held)
	discount, couponID, err := s.quoteDiscount(ctx, userID, couponCode, totalPrice)
	if err != nil {
		s.releaseQuietly(ctx, showtimeID, seatIDs, userID)
		return nil, err
	}

	reference, err := GenerateReference(time.Now())
	if err != nil {
		s.releaseQuietly(ctx, showtimeID, seatIDs, userID)
		return nil, err
	}

	booking := &Booking{
		Reference:      reference,
		UserID:         userID,
		ShowtimeID:     showtimeID,
		Status:         StatusReserved,
		TotalPrice:     totalPrice,
		DiscountAmount: discount,
		FinalAmount:    totalPrice - discount,
		ReservedUntil:  &expiresAt,
		Seats:          joinRows(held, showtimeID),
	}
	if err := s.repo.CreateWithSeats(ctx, booking); err != nil {
		s.releaseQuietly(ctx, showtimeID, seatIDs, userID)
		return nil, err
	}

	if couponID != uuid.Nil {
		if err := s.coupons.Reserve(ctx, userID, couponID, booking.ID); err != nil {
			// The grant was taken between validation and attach. Unwind
			// the whole reservation rather than charge an undiscounted
			// price the user did not agree to.
			s.rollbackReservation(ctx, booking)
			return nil, fmt.Errorf("coupon no longer available: %w", err)
		}
	}

	s.logger.LogSeatsReserved(ctx, booking.ID.String(), showtimeID.String(), userID.String(), len(held))
	s.publish(ctx, EventBookingReserved, booking, booking.FinalAmount)
	return booking, nil
}

// UpdateSeats replaces the seat selection of a RESERVED booking. Removed
// seats are released, added seats are held, and the payment window
// restarts at a fresh 15 minutes. Rejected once the previous window has
// lapsed.
func (s *service) UpdateSeats(ctx context.Context, userID, bookingID uuid.UUID, seatIDs []uuid.UUID) (*Booking, error) {
	booking, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != StatusReserved {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	if booking.IsExpired(now) {
		return nil, ErrReservationExpired
	}

	// Holding the new set first extends holds on kept seats, so a release
	// of the removed ones cannot strand the whole selection.
	held, expiresAt, err := s.seatLedger.ReserveSeats(ctx, booking.ShowtimeID, seatIDs, userID)
	if err != nil {
		return nil, err
	}

	if removed := difference(booking.SeatIDs(), seatIDs); len(removed) > 0 {
		if err := s.seatLedger.ReleaseSeats(ctx, booking.ShowtimeID, removed, userID); err != nil {
			s.logger.ErrorWithContext(ctx, "Failed to release removed seats", err, map[string]interface{}{
				"booking_id": bookingID.String(),
			})
		}
	}

	totalPrice := sumPrices(held)
	discount := booking.DiscountAmount
	if discount > totalPrice {
		discount = totalPrice
	}
	if err := s.repo.ReplaceSeats(ctx, bookingID, joinRows(held, booking.ShowtimeID), totalPrice, discount, totalPrice-discount, expiresAt); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, bookingID)
}

// ConfirmPayment transitions a RESERVED booking to PAID. The status flip
// is conditional on the payment window, so an expired reservation fails
// here with no Payment row, the seats stay reclaimable, and the caller
// must restart seat selection.
func (s *service) ConfirmPayment(ctx context.Context, userID, bookingID uuid.UUID, req ConfirmPaymentRequest) (*Booking, error) {
	booking, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Payment != nil {
		return nil, ErrPaymentRecorded
	}
	if math.Abs(req.Amount-booking.FinalAmount) > 0.01 {
		return nil, fmt.Errorf("payment amount %.2f does not match booking total %.2f", req.Amount, booking.FinalAmount)
	}

	now := time.Now()
	if err := s.repo.TransitionReservedToPaid(ctx, bookingID, now); err != nil {
		return nil, err
	}

	if err := s.seatLedger.CommitSeats(ctx, booking.ShowtimeID, booking.SeatIDs(), userID); err != nil {
		s.logger.ErrorWithContext(ctx, "Seat commit failed after booking paid", err, map[string]interface{}{
			"booking_id": bookingID.String(),
		})
		return nil, err
	}

	payment := &Payment{
		BookingID:        bookingID,
		Provider:         req.Provider,
		GatewayPaymentID: req.GatewayPaymentID,
		Method:           req.Method,
		Amount:           req.Amount,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.coupons.Redeem(ctx, bookingID); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to redeem coupon", err, map[string]interface{}{
			"booking_id": bookingID.String(),
		})
	}

	s.logger.LogBookingPaid(ctx, bookingID.String(), userID.String(), req.Amount)

	paid, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, EventBookingPaid, paid, payment.Amount)
	return paid, nil
}

// Cancel unwinds a RESERVED or PAID booking: flips the status, frees the
// seats, restores a pending coupon, and for paid bookings records the
// tiered refund and hands it to the gateway. A gateway failure marks the
// refund FAILED but never rolls the cancellation back.
func (s *service) Cancel(ctx context.Context, userID, bookingID uuid.UUID, reason string) (*Booking, *cancellation.Cancellation, error) {
	booking, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if !booking.Status.IsActive() {
		return nil, nil, ErrInvalidTransition
	}
	now := time.Now()
	if booking.IsExpired(now) {
		return nil, nil, ErrReservationExpired
	}

	showtime, err := s.catalog.GetShowtime(ctx, booking.ShowtimeID)
	if err != nil {
		return nil, nil, err
	}

	from := booking.Status
	seatIDs := booking.SeatIDs()
	if err := s.repo.TransitionToCancelled(ctx, bookingID, from, now); err != nil {
		return nil, nil, err
	}

	if from == StatusPaid {
		err = s.seatLedger.ReleaseCancelledSeats(ctx, booking.ShowtimeID, seatIDs)
	} else {
		err = s.seatLedger.ReleaseSeats(ctx, booking.ShowtimeID, seatIDs, userID)
	}
	if err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to release seats of cancelled booking", err, map[string]interface{}{
			"booking_id": bookingID.String(),
		})
	}

	if err := s.coupons.Release(ctx, bookingID); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to restore coupon", err, map[string]interface{}{
			"booking_id": bookingID.String(),
		})
	}

	var originalAmount float64
	if from == StatusPaid && booking.Payment != nil {
		originalAmount = booking.Payment.Amount
	}
	record, err := s.cancellations.RecordCancellation(ctx, cancellation.RecordParams{
		BookingID:        bookingID,
		UserID:           userID,
		Reason:           reason,
		OriginalAmount:   originalAmount,
		ShowtimeStartsAt: showtime.StartsAt,
	})
	if err != nil {
		return nil, nil, err
	}

	if record.RefundAmount > 0 && booking.Payment != nil {
		s.cancellations.RequestRefund(ctx, record, booking.Payment.Provider, booking.Payment.GatewayPaymentID)
	}

	s.logger.LogBookingCancelled(ctx, bookingID.String(), userID.String(), record.RefundAmount)

	cancelled, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	s.publish(ctx, EventBookingCancelled, cancelled, record.RefundAmount)
	return cancelled, record, nil
}

func (s *service) GetBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error) {
	return s.ownedBooking(ctx, userID, bookingID)
}

func (s *service) ListMyBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	return s.repo.ListByUser(ctx, userID, query)
}

// SweepExpired reclaims RESERVED bookings whose payment window has
// lapsed. Each booking is claimed with a conditional write before any
// side effect, so concurrent sweeps act on a booking at most once and the
// pass is idempotent.
func (s *service) SweepExpired(ctx context.Context, batchSize int) (int, error) {
	now := time.Now()
	expired, err := s.repo.FindExpired(ctx, now, batchSize)
	if err != nil {
		return 0, err
	}

	reclaimed := 0
	for i := range expired {
		booking := &expired[i]
		seatIDs := booking.SeatIDs()

		claimed, err := s.repo.ClaimExpired(ctx, booking.ID, now)
		if err != nil {
			s.logger.ErrorWithContext(ctx, "Failed to claim expired booking", err, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
			continue
		}
		if !claimed {
			continue
		}

		if err := s.seatLedger.ReleaseSweptSeats(ctx, booking.ShowtimeID, seatIDs); err != nil {
			s.logger.ErrorWithContext(ctx, "Failed to release swept seats", err, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
		}
		if err := s.coupons.Release(ctx, booking.ID); err != nil {
			s.logger.ErrorWithContext(ctx, "Failed to restore swept coupon", err, map[string]interface{}{
				"booking_id": booking.ID.String(),
			})
		}

		booking.Status = StatusExpired
		s.publish(ctx, EventBookingExpired, booking, 0)
		reclaimed++
	}

	if reclaimed > 0 {
		s.logger.LogReservationsSwept(ctx, reclaimed)
	}
	return reclaimed, nil
}

func (s *service) ownedBooking(ctx context.Context, userID, bookingID uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

func (s *service) quoteDiscount(ctx context.Context, userID uuid.UUID, couponCode string, total float64) (float64, uuid.UUID, error) {
	if couponCode == "" {
		return 0, uuid.Nil, nil
	}
	quote, err := s.coupons.Validate(ctx, userID, couponCode, total)
	if err != nil {
		return 0, uuid.Nil, err
	}
	return quote.DiscountAmount, quote.CouponID, nil
}

// rollbackReservation unwinds a just-created booking whose coupon attach
// failed.
func (s *service) rollbackReservation(ctx context.Context, booking *Booking) {
	if err := s.repo.TransitionToCancelled(ctx, booking.ID, StatusReserved, time.Now()); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to roll back reservation", err, map[string]interface{}{
			"booking_id": booking.ID.String(),
		})
		return
	}
	s.releaseQuietly(ctx, booking.ShowtimeID, booking.SeatIDs(), booking.UserID)
}

func (s *service) releaseQuietly(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) {
	if err := s.seatLedger.ReleaseSeats(ctx, showtimeID, seatIDs, userID); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to release seats", err, map[string]interface{}{
			"showtime_id": showtimeID.String(),
		})
	}
}

func (s *service) publish(ctx context.Context, eventType string, booking *Booking, amount float64) {
	if s.events == nil {
		return
	}
	s.events.PublishBookingEvent(ctx, BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		Reference:  booking.Reference,
		UserID:     booking.UserID,
		ShowtimeID: booking.ShowtimeID,
		Status:     booking.Status,
		Amount:     amount,
		OccurredAt: time.Now(),
	})
}

func sumPrices(held []seats.Seat) float64 {
	var total float64
	for i := range held {
		total += held[i].Price
	}
	return total
}

func joinRows(held []seats.Seat, showtimeID uuid.UUID) []BookingSeat {
	rows := make([]BookingSeat, len(held))
	for i := range held {
		rows[i] = BookingSeat{
			SeatID:     held[i].ID,
			ShowtimeID: showtimeID,
			SeatLabel:  held[i].Label(),
			Price:      held[i].Price,
		}
	}
	return rows
}

func difference(prev, next []uuid.UUID) []uuid.UUID {
	keep := make(map[uuid.UUID]bool, len(next))
	for _, id := range next {
		keep[id] = true
	}
	var removed []uuid.UUID
	for _, id := range prev {
		if !keep[id] {
			removed = append(removed, id)
		}
	}
	return removed
}
