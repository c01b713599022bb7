package bookings

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/cancellation"
	"cinebook/internal/coupons"
	"cinebook/internal/seats"
	"cinebook/internal/showtimes"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo is an in-memory Repository honoring the conditional-write
// semantics of the real one.
type fakeRepo struct {
	bookings map[uuid.UUID]*Booking
	payments map[uuid.UUID]*Payment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings: make(map[uuid.UUID]*Booking),
		payments: make(map[uuid.UUID]*Payment),
	}
}

func (f *fakeRepo) CreateWithSeats(_ context.Context, b *Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	for i := range b.Seats {
		b.Seats[i].BookingID = b.ID
	}
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	copied.Payment = f.payments[id]
	return &copied, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID, _ BookingListQuery) ([]Booking, int64, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) ReplaceSeats(_ context.Context, bookingID uuid.UUID, seatRows []BookingSeat, totalPrice, discount, finalAmount float64, reservedUntil time.Time) error {
	b, ok := f.bookings[bookingID]
	if !ok || b.Status != StatusReserved {
		return ErrInvalidTransition
	}
	for i := range seatRows {
		seatRows[i].BookingID = bookingID
	}
	b.Seats = seatRows
	b.TotalPrice = totalPrice
	b.DiscountAmount = discount
	b.FinalAmount = finalAmount
	b.ReservedUntil = &reservedUntil
	return nil
}

func (f *fakeRepo) TransitionReservedToPaid(_ context.Context, bookingID uuid.UUID, now time.Time) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	if b.Status != StatusReserved || b.ReservedUntil == nil || b.ReservedUntil.Before(now) {
		if b.Status == StatusExpired || b.IsExpired(now) {
			return ErrReservationExpired
		}
		return ErrInvalidTransition
	}
	b.Status = StatusPaid
	b.ReservedUntil = nil
	b.PaidAt = &now
	return nil
}

func (f *fakeRepo) TransitionToCancelled(_ context.Context, bookingID uuid.UUID, from Status, now time.Time) error {
	b, ok := f.bookings[bookingID]
	if !ok {
		return ErrBookingNotFound
	}
	if b.Status != from || !from.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	b.Status = StatusCancelled
	b.ReservedUntil = nil
	b.CancelledAt = &now
	b.Seats = nil
	return nil
}

func (f *fakeRepo) FindExpired(_ context.Context, now time.Time, limit int) ([]Booking, error) {
	var out []Booking
	for _, b := range f.bookings {
		if b.IsExpired(now) && len(out) < limit {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) ClaimExpired(_ context.Context, bookingID uuid.UUID, now time.Time) (bool, error) {
	b, ok := f.bookings[bookingID]
	if !ok || !b.IsExpired(now) {
		return false, nil
	}
	b.Status = StatusExpired
	b.ReservedUntil = nil
	b.Seats = nil
	return true, nil
}

func (f *fakeRepo) CreatePayment(_ context.Context, p *Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.payments[p.BookingID] = p
	return nil
}

// fakeLedger mirrors the seat ledger's conditional-hold behavior.
type fakeLedger struct {
	seats     map[uuid.UUID]*seats.Seat
	ttl       time.Duration
	conflicts []uuid.UUID // next ReserveSeats call fails with these
}

func newFakeLedger(ttl time.Duration) *fakeLedger {
	return &fakeLedger{seats: make(map[uuid.UUID]*seats.Seat), ttl: ttl}
}

func (f *fakeLedger) addSeat(showtimeID uuid.UUID, row string, number int, price float64) uuid.UUID {
	id := uuid.New()
	f.seats[id] = &seats.Seat{
		ID: id, ShowtimeID: showtimeID, Row: row, Number: number,
		Status: seats.StatusAvailable, Price: price,
	}
	return id
}

func (f *fakeLedger) ReserveSeats(_ context.Context, _ uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) ([]seats.Seat, time.Time, error) {
	if len(f.conflicts) > 0 {
		conflict := &seats.ConflictError{SeatIDs: f.conflicts}
		f.conflicts = nil
		return nil, time.Time{}, conflict
	}
	now := time.Now()
	expiresAt := now.Add(f.ttl)
	var held []seats.Seat
	for _, id := range seatIDs {
		seat, ok := f.seats[id]
		if !ok || !seat.AcquirableBy(userID, now) {
			return nil, time.Time{}, &seats.ConflictError{SeatIDs: []uuid.UUID{id}}
		}
		seat.Status = seats.StatusReserved
		holder := userID
		seat.HolderUserID = &holder
		exp := expiresAt
		seat.HoldExpiresAt = &exp
		held = append(held, *seat)
	}
	return held, expiresAt, nil
}

func (f *fakeLedger) ReleaseSeats(_ context.Context, _ uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error {
	for _, id := range seatIDs {
		seat := f.seats[id]
		if seat != nil && seat.Status == seats.StatusReserved && seat.HolderUserID != nil && *seat.HolderUserID == userID {
			f.free(seat)
		}
	}
	return nil
}

func (f *fakeLedger) CommitSeats(_ context.Context, _ uuid.UUID, seatIDs []uuid.UUID, userID uuid.UUID) error {
	for _, id := range seatIDs {
		seat := f.seats[id]
		if seat == nil || seat.Status != seats.StatusReserved || seat.HolderUserID == nil || *seat.HolderUserID != userID {
			return seats.ErrHoldLost
		}
	}
	for _, id := range seatIDs {
		seat := f.seats[id]
		seat.Status = seats.StatusBooked
		seat.HolderUserID = nil
		seat.HoldExpiresAt = nil
	}
	return nil
}

func (f *fakeLedger) ReleaseSweptSeats(_ context.Context, _ uuid.UUID, seatIDs []uuid.UUID) error {
	for _, id := range seatIDs {
		if seat := f.seats[id]; seat != nil && seat.Status == seats.StatusReserved {
			f.free(seat)
		}
	}
	return nil
}

func (f *fakeLedger) ReleaseCancelledSeats(_ context.Context, _ uuid.UUID, seatIDs []uuid.UUID) error {
	for _, id := range seatIDs {
		if seat := f.seats[id]; seat != nil && seat.Status != seats.StatusAvailable {
			f.free(seat)
		}
	}
	return nil
}

func (f *fakeLedger) free(seat *seats.Seat) {
	seat.Status = seats.StatusAvailable
	seat.HolderUserID = nil
	seat.HoldExpiresAt = nil
}

type fakeCatalog struct {
	showtimes map[uuid.UUID]*showtimes.Showtime
}

func (f *fakeCatalog) GetShowtime(_ context.Context, id uuid.UUID) (*showtimes.Showtime, error) {
	st, ok := f.showtimes[id]
	if !ok {
		return nil, showtimes.ErrShowtimeNotFound
	}
	return st, nil
}

// fakeCoupons tracks grant transitions per booking.
type fakeCoupons struct {
	discount   float64
	couponID   uuid.UUID
	pending    map[uuid.UUID]bool // bookingID -> has pending grant
	used       map[uuid.UUID]bool
	restored   map[uuid.UUID]int
	failAttach bool
}

func newFakeCoupons() *fakeCoupons {
	return &fakeCoupons{
		couponID: uuid.New(),
		pending:  make(map[uuid.UUID]bool),
		used:     make(map[uuid.UUID]bool),
		restored: make(map[uuid.UUID]int),
	}
}

func (f *fakeCoupons) Validate(_ context.Context, _ uuid.UUID, code string, total float64) (*coupons.ValidateCouponResponse, error) {
	if code == "BAD" {
		return nil, coupons.ErrCouponNotFound
	}
	return &coupons.ValidateCouponResponse{
		CouponID: f.couponID, Code: code,
		DiscountAmount: f.discount, FinalPrice: total - f.discount,
	}, nil
}

func (f *fakeCoupons) Reserve(_ context.Context, _, _, bookingID uuid.UUID) error {
	if f.failAttach {
		return coupons.ErrGrantTransition
	}
	f.pending[bookingID] = true
	return nil
}

func (f *fakeCoupons) Redeem(_ context.Context, bookingID uuid.UUID) error {
	if f.pending[bookingID] {
		delete(f.pending, bookingID)
		f.used[bookingID] = true
	}
	return nil
}

func (f *fakeCoupons) Release(_ context.Context, bookingID uuid.UUID) error {
	if f.pending[bookingID] {
		delete(f.pending, bookingID)
		f.restored[bookingID]++
	}
	return nil
}

type fakeCancellations struct {
	records []*cancellation.Cancellation
	refunds int
}

func (f *fakeCancellations) RecordCancellation(_ context.Context, params cancellation.RecordParams) (*cancellation.Cancellation, error) {
	quote := cancellation.ComputeRefund(params.OriginalAmount, params.ShowtimeStartsAt, time.Now())
	status := cancellation.RefundPending
	if quote.Amount == 0 {
		status = cancellation.RefundCompleted
	}
	record := &cancellation.Cancellation{
		ID:                  uuid.New(),
		BookingID:           params.BookingID,
		UserID:              params.UserID,
		Reason:              params.Reason,
		OriginalAmount:      params.OriginalAmount,
		RefundAmount:        quote.Amount,
		RefundPercentage:    quote.Percentage,
		HoursBeforeShowtime: quote.HoursBeforeShowtime,
		RefundStatus:        status,
	}
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeCancellations) RequestRefund(_ context.Context, c *cancellation.Cancellation, _, _ string) {
	f.refunds++
	c.RefundStatus = cancellation.RefundProcessing
}

type fixture struct {
	svc        Service
	repo       *fakeRepo
	ledger     *fakeLedger
	coupons    *fakeCoupons
	cancels    *fakeCancellations
	userID     uuid.UUID
	showtimeID uuid.UUID
	seatIDs    []uuid.UUID
}

func newFixture(t *testing.T, showtimeIn time.Duration, ttl time.Duration) *fixture {
	t.Helper()

	showtimeID := uuid.New()
	catalog := &fakeCatalog{showtimes: map[uuid.UUID]*showtimes.Showtime{
		showtimeID: {ID: showtimeID, MovieTitle: "Test Feature", StartsAt: time.Now().Add(showtimeIn), BasePrice: 250},
	}}

	ledger := newFakeLedger(ttl)
	seatIDs := []uuid.UUID{
		ledger.addSeat(showtimeID, "A", 1, 250),
		ledger.addSeat(showtimeID, "A", 2, 250),
	}

	repo := newFakeRepo()
	couponSvc := newFakeCoupons()
	cancels := &fakeCancellations{}

	svc := NewService(repo, ledger, catalog, couponSvc, cancels, nil, logger.New())
	return &fixture{
		svc: svc, repo: repo, ledger: ledger, coupons: couponSvc, cancels: cancels,
		userID: uuid.New(), showtimeID: showtimeID, seatIDs: seatIDs,
	}
}

func TestReserveCreatesReservedBooking(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)

	assert.Equal(t, StatusReserved, booking.Status)
	assert.Equal(t, float64(500), booking.TotalPrice)
	assert.Equal(t, float64(500), booking.FinalAmount)
	require.NotNil(t, booking.ReservedUntil)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *booking.ReservedUntil, 2*time.Second)
	assert.Len(t, booking.Seats, 2)
	assert.Regexp(t, `^CNB-\d{8}-[A-Z2-9]{6}$`, booking.Reference)

	for _, id := range fx.seatIDs {
		assert.Equal(t, seats.StatusReserved, fx.ledger.seats[id].Status)
	}
}

func TestReserveSeatConflictCreatesNothing(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	ctx := context.Background()

	fx.ledger.conflicts = []uuid.UUID{fx.seatIDs[1]}
	_, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")

	conflict, ok := seats.IsConflict(err)
	require.True(t, ok, "expected a seat conflict, got %v", err)
	assert.Equal(t, []uuid.UUID{fx.seatIDs[1]}, conflict.SeatIDs)
	assert.Empty(t, fx.repo.bookings, "no booking may exist after a failed hold")
}

func TestReserveRejectsStartedShowtime(t *testing.T) {
	fx := newFixture(t, -time.Hour, 15*time.Minute)
	_, err := fx.svc.Reserve(context.Background(), fx.userID, fx.showtimeID, fx.seatIDs, "")
	assert.ErrorIs(t, err, ErrShowtimeStarted)
}

func TestReserveWithCouponDiscountsTotal(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	fx.coupons.discount = 100

	booking, err := fx.svc.Reserve(context.Background(), fx.userID, fx.showtimeID, fx.seatIDs, "WELCOME10")
	require.NoError(t, err)

	assert.Equal(t, float64(500), booking.TotalPrice)
	assert.Equal(t, float64(100), booking.DiscountAmount)
	assert.Equal(t, float64(400), booking.FinalAmount)
	assert.True(t, fx.coupons.pending[booking.ID], "grant must be PENDING on the booking")
}

func TestReserveUnwindsWhenCouponAttachFails(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	fx.coupons.discount = 100
	fx.coupons.failAttach = true

	_, err := fx.svc.Reserve(context.Background(), fx.userID, fx.showtimeID, fx.seatIDs, "WELCOME10")
	require.Error(t, err)

	for _, id := range fx.seatIDs {
		assert.Equal(t, seats.StatusAvailable, fx.ledger.seats[id].Status,
			"seats must be released when the reservation is unwound")
	}
}

func TestConfirmPaymentHappyPath(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)

	paid, err := fx.svc.ConfirmPayment(ctx, fx.userID, booking.ID, ConfirmPaymentRequest{
		Provider: "stripe", GatewayPaymentID: "pi_123", Method: "card", Amount: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, paid.Status)
	assert.Nil(t, paid.ReservedUntil)
	require.NotNil(t, paid.Payment)
	assert.Equal(t, float64(500), paid.Payment.Amount)
	for _, id := range fx.seatIDs {
		assert.Equal(t, seats.StatusBooked, fx.ledger.seats[id].Status)
	}
}

func TestConfirmPaymentAfterExpiryLeavesNoPayment(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, -time.Minute) // window already lapsed
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)

	_, err = fx.svc.ConfirmPayment(ctx, fx.userID, booking.ID, ConfirmPaymentRequest{
		Provider: "stripe", GatewayPaymentID: "pi_123", Method: "card", Amount: 500,
	})
	assert.ErrorIs(t, err, ErrReservationExpired)
	assert.Empty(t, fx.repo.payments, "no Payment row may exist after a failed confirmation")

	stored, err := fx.repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.NotEqual(t, StatusPaid, stored.Status)
}

func TestConfirmPaymentAmountMismatch(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)

	_, err = fx.svc.ConfirmPayment(ctx, fx.userID, booking.ID, ConfirmPaymentRequest{
		Provider: "stripe", GatewayPaymentID: "pi_123", Method: "card", Amount: 300,
	})
	require.Error(t, err)
	assert.Empty(t, fx.repo.payments)
}

func TestConfirmPaymentRedeemsCoupon(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	fx.coupons.discount = 50
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "WELCOME10")
	require.NoError(t, err)

	_, err = fx.svc.ConfirmPayment(ctx, fx.userID, booking.ID, ConfirmPaymentRequest{
		Provider: "stripe", GatewayPaymentID: "pi_123", Method: "card", Amount: 450,
	})
	require.NoError(t, err)
	assert.True(t, fx.coupons.used[booking.ID], "grant must be USED after payment")
}

func TestCancelPaidBookingRefundsByTier(t *testing.T) {
	fx := newFixture(t, 90*time.Minute, 15*time.Minute) // inside the 75% tier
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)
	_, err = fx.svc.ConfirmPayment(ctx, fx.userID, booking.ID, ConfirmPaymentRequest{
		Provider: "omise", GatewayPaymentID: "chrg_1", Method: "promptpay", Amount: 500,
	})
	require.NoError(t, err)

	cancelled, record, err := fx.svc.Cancel(ctx, fx.userID, booking.ID, "change of plans")
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 75, record.RefundPercentage)
	assert.Equal(t, float64(375), record.RefundAmount)
	assert.Equal(t, 1, fx.cancels.refunds, "refund must be handed to the gateway")
	for _, id := range fx.seatIDs {
		assert.Equal(t, seats.StatusAvailable, fx.ledger.seats[id].Status,
			"booked seats must return to the pool on cancellation")
	}
}

func TestCancelReservedBookingRefundsNothing(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)

	_, record, err := fx.svc.Cancel(ctx, fx.userID, booking.ID, "")
	require.NoError(t, err)

	assert.Equal(t, float64(0), record.RefundAmount)
	assert.Equal(t, cancellation.RefundCompleted, record.RefundStatus)
	assert.Zero(t, fx.cancels.refunds, "nothing paid, nothing to refund")
}

func TestCancelRestoresPendingCoupon(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	fx.coupons.discount = 50
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "WELCOME10")
	require.NoError(t, err)

	_, _, err = fx.svc.Cancel(ctx, fx.userID, booking.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 1, fx.coupons.restored[booking.ID])
}

func TestCancelRejectsForeignBooking(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)

	_, _, err = fx.svc.Cancel(ctx, uuid.New(), booking.ID, "")
	assert.ErrorIs(t, err, ErrNotBookingOwner)
}

func TestCancelTwiceFails(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)

	_, _, err = fx.svc.Cancel(ctx, fx.userID, booking.ID, "")
	require.NoError(t, err)
	_, _, err = fx.svc.Cancel(ctx, fx.userID, booking.ID, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateSeatsRefreshesWindow(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, 15*time.Minute)
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs[:1], "")
	require.NoError(t, err)
	firstWindow := *booking.ReservedUntil

	extra := fx.ledger.addSeat(fx.showtimeID, "B", 1, 250)
	updated, err := fx.svc.UpdateSeats(ctx, fx.userID, booking.ID, []uuid.UUID{fx.seatIDs[1], extra})
	require.NoError(t, err)

	assert.Equal(t, float64(500), updated.TotalPrice)
	assert.Len(t, updated.Seats, 2)
	require.NotNil(t, updated.ReservedUntil)
	assert.False(t, updated.ReservedUntil.Before(firstWindow), "window must restart, not shrink")

	assert.Equal(t, seats.StatusAvailable, fx.ledger.seats[fx.seatIDs[0]].Status,
		"removed seat must be released")
	assert.Equal(t, seats.StatusReserved, fx.ledger.seats[extra].Status)
}

func TestUpdateSeatsRejectsExpiredReservation(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, -time.Minute)
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)

	_, err = fx.svc.UpdateSeats(ctx, fx.userID, booking.ID, fx.seatIDs[:1])
	assert.ErrorIs(t, err, ErrReservationExpired)
}

func TestSweepReclaimsLapsedReservations(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, -time.Minute)
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "")
	require.NoError(t, err)

	reclaimed, err := fx.svc.SweepExpired(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, reclaimed)

	stored, err := fx.repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, stored.Status)
	assert.Empty(t, stored.Seats, "join rows must be removed on expiry")

	// Released seats are immediately re-reservable by another user.
	other := uuid.New()
	held, _, err := fx.ledger.ReserveSeats(ctx, fx.showtimeID, fx.seatIDs, other)
	require.NoError(t, err)
	assert.Len(t, held, 2)
}

func TestSweepIsIdempotent(t *testing.T) {
	fx := newFixture(t, 24*time.Hour, -time.Minute)
	fx.coupons.discount = 50
	ctx := context.Background()

	booking, err := fx.svc.Reserve(ctx, fx.userID, fx.showtimeID, fx.seatIDs, "WELCOME10")
	require.NoError(t, err)

	first, err := fx.svc.SweepExpired(ctx, 100)
	require.NoError(t, err)
	second, err := fx.svc.SweepExpired(ctx, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Zero(t, second, "a second pass finds nothing to claim")
	assert.Equal(t, 1, fx.coupons.restored[booking.ID], "coupon restored exactly once")
}
