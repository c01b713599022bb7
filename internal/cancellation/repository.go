package cancellation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrCancellationNotFound signals an unknown cancellation or refund ID.
var ErrCancellationNotFound = errors.New("cancellation not found")

type Repository interface {
	Create(ctx context.Context, cancellation *Cancellation) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error)
	GetByGatewayRefundID(ctx context.Context, gatewayRefundID string) (*Cancellation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Cancellation, error)
	MarkProcessing(ctx context.Context, id uuid.UUID, provider, gatewayRefundID string) error
	SettleRefund(ctx context.Context, id uuid.UUID, status RefundStatus) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cancellation *Cancellation) error {
	if err := r.db.WithContext(ctx).Create(cancellation).Error; err != nil {
		return fmt.Errorf("failed to create cancellation: %w", err)
	}
	return nil
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Cancellation, error) {
	var cancellation Cancellation
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&cancellation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCancellationNotFound
		}
		return nil, fmt.Errorf("failed to get cancellation: %w", err)
	}
	return &cancellation, nil
}

func (r *repository) GetByGatewayRefundID(ctx context.Context, gatewayRefundID string) (*Cancellation, error) {
	var cancellation Cancellation
	err := r.db.WithContext(ctx).Where("gateway_refund_id = ?", gatewayRefundID).First(&cancellation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCancellationNotFound
		}
		return nil, fmt.Errorf("failed to get cancellation by refund id: %w", err)
	}
	return &cancellation, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Cancellation, error) {
	var cancellations []Cancellation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&cancellations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cancellations: %w", err)
	}
	return cancellations, nil
}

// MarkProcessing records the gateway handoff. Conditional on the refund
// still being PENDING.
func (r *repository) MarkProcessing(ctx context.Context, id uuid.UUID, provider, gatewayRefundID string) error {
	result := r.db.WithContext(ctx).Model(&Cancellation{}).
		Where("id = ? AND refund_status = ?", id, RefundPending).
		Updates(map[string]interface{}{
			"refund_status":     RefundProcessing,
			"provider":          provider,
			"gateway_refund_id": gatewayRefundID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark refund processing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("refund %s not in PENDING state", id)
	}
	return nil
}

// SettleRefund moves a non-terminal refund to COMPLETED or FAILED. Returns
// false without error when the refund was already settled, which makes
// webhook replays idempotent.
func (r *repository) SettleRefund(ctx context.Context, id uuid.UUID, status RefundStatus) (bool, error) {
	if !status.IsTerminal() {
		return false, fmt.Errorf("refund settlement status must be terminal, got %s", status)
	}
	result := r.db.WithContext(ctx).Model(&Cancellation{}).
		Where("id = ? AND refund_status IN ?", id, []RefundStatus{RefundPending, RefundProcessing}).
		Update("refund_status", status)
	if result.Error != nil {
		return false, fmt.Errorf("failed to settle refund: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
