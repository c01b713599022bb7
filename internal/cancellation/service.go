package cancellation

import (
	"context"
	"fmt"
	"time"

	"cinebook/internal/payments"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// RecordParams describes the booking being cancelled.
type RecordParams struct {
	BookingID        uuid.UUID
	UserID           uuid.UUID
	Reason           string
	OriginalAmount   float64
	ShowtimeStartsAt time.Time
}

type Service interface {
	RecordCancellation(ctx context.Context, params RecordParams) (*Cancellation, error)
	RequestRefund(ctx context.Context, cancellation *Cancellation, provider, gatewayPaymentID string)
	HandleRefundWebhook(ctx context.Context, gatewayRefundID string, succeeded bool) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Cancellation, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error)
}

type service struct {
	repo     Repository
	gateways *payments.Registry
	logger   *logger.Logger
}

func NewService(repo Repository, gateways *payments.Registry, log *logger.Logger) Service {
	return &service{repo: repo, gateways: gateways, logger: log}
}

// RecordCancellation computes the refund tier and persists the
// cancellation row. A zero refund (nothing paid, or inside the no-refund
// window) is recorded COMPLETED immediately since there is nothing to
// send to a gateway.
func (s *service) RecordCancellation(ctx context.Context, params RecordParams) (*Cancellation, error) {
	quote := ComputeRefund(params.OriginalAmount, params.ShowtimeStartsAt, time.Now())

	status := RefundPending
	if quote.Amount == 0 {
		status = RefundCompleted
	}

	cancellation := &Cancellation{
		BookingID:           params.BookingID,
		UserID:              params.UserID,
		Reason:              params.Reason,
		OriginalAmount:      params.OriginalAmount,
		RefundAmount:        quote.Amount,
		RefundPercentage:    quote.Percentage,
		HoursBeforeShowtime: quote.HoursBeforeShowtime,
		RefundStatus:        status,
	}
	if err := s.repo.Create(ctx, cancellation); err != nil {
		return nil, err
	}
	return cancellation, nil
}

// RequestRefund hands the refund to the payment gateway. Failures mark the
// refund FAILED and are logged, never returned: the booking is already
// cancelled and seat release must not hinge on gateway availability. A
// failed refund is retried out-of-band.
func (s *service) RequestRefund(ctx context.Context, cancellation *Cancellation, provider, gatewayPaymentID string) {
	if cancellation.RefundAmount <= 0 {
		return
	}

	gateway, err := s.gateways.Get(provider)
	if err != nil {
		s.failRefund(ctx, cancellation, err)
		return
	}

	s.logger.LogRefundRequested(ctx, cancellation.ID.String(), provider, cancellation.RefundAmount)

	result, err := gateway.Refund(ctx, gatewayPaymentID, cancellation.RefundAmount)
	if err != nil || result.Status != payments.RefundAccepted {
		if err == nil {
			err = fmt.Errorf("gateway rejected refund")
		}
		s.failRefund(ctx, cancellation, err)
		return
	}

	if err := s.repo.MarkProcessing(ctx, cancellation.ID, provider, result.GatewayRefundID); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to record refund handoff", err, map[string]interface{}{
			"cancellation_id": cancellation.ID.String(),
		})
		return
	}
	cancellation.RefundStatus = RefundProcessing
	cancellation.Provider = provider
	cancellation.GatewayRefundID = result.GatewayRefundID
}

func (s *service) failRefund(ctx context.Context, cancellation *Cancellation, cause error) {
	s.logger.ErrorWithContext(ctx, "Refund request failed", cause, map[string]interface{}{
		"cancellation_id": cancellation.ID.String(),
		"booking_id":      cancellation.BookingID.String(),
		"amount":          cancellation.RefundAmount,
	})
	if _, err := s.repo.SettleRefund(ctx, cancellation.ID, RefundFailed); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to mark refund failed", err, map[string]interface{}{
			"cancellation_id": cancellation.ID.String(),
		})
		return
	}
	cancellation.RefundStatus = RefundFailed
}

// HandleRefundWebhook settles a refund from a gateway callback. Replayed
// webhooks for an already-settled refund are acknowledged without effect.
func (s *service) HandleRefundWebhook(ctx context.Context, gatewayRefundID string, succeeded bool) error {
	cancellation, err := s.repo.GetByGatewayRefundID(ctx, gatewayRefundID)
	if err != nil {
		return err
	}

	status := RefundCompleted
	if !succeeded {
		status = RefundFailed
	}

	settled, err := s.repo.SettleRefund(ctx, cancellation.ID, status)
	if err != nil {
		return err
	}
	if !settled {
		s.logger.InfoWithContext(ctx, "Ignoring webhook for settled refund", map[string]interface{}{
			"gateway_refund_id": gatewayRefundID,
			"refund_status":     cancellation.RefundStatus,
		})
		return nil
	}

	s.logger.InfoWithContext(ctx, "Refund settled", map[string]interface{}{
		"cancellation_id":   cancellation.ID.String(),
		"gateway_refund_id": gatewayRefundID,
		"refund_status":     status,
	})
	return nil
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Cancellation, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	return s.repo.GetByBookingID(ctx, bookingID)
}
