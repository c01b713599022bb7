package cancellation

import (
	"time"

	"github.com/google/uuid"
)

// RefundStatus is the settlement state of a cancellation's refund
type RefundStatus string

const (
	RefundPending    RefundStatus = "PENDING"
	RefundProcessing RefundStatus = "PROCESSING"
	RefundCompleted  RefundStatus = "COMPLETED"
	RefundFailed     RefundStatus = "FAILED"
)

// IsValid checks if the refund status is valid
func (s RefundStatus) IsValid() bool {
	switch s {
	case RefundPending, RefundProcessing, RefundCompleted, RefundFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the refund has settled.
func (s RefundStatus) IsTerminal() bool {
	return s == RefundCompleted || s == RefundFailed
}

// Cancellation records the unwinding of one booking, 1:1 with the
// cancelled booking. Rows are never deleted.
type Cancellation struct {
	ID                  uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID           uuid.UUID    `gorm:"type:uuid;uniqueIndex;not null" json:"booking_id"`
	UserID              uuid.UUID    `gorm:"type:uuid;index;not null" json:"user_id"`
	Reason              string       `json:"reason"`
	OriginalAmount      float64      `gorm:"not null" json:"original_amount"`
	RefundAmount        float64      `gorm:"not null" json:"refund_amount"`
	RefundPercentage    int          `gorm:"not null" json:"refund_percentage"`
	HoursBeforeShowtime float64      `gorm:"not null" json:"hours_before_showtime"`
	RefundStatus        RefundStatus `gorm:"type:varchar(20);check:refund_status IN ('PENDING', 'PROCESSING', 'COMPLETED', 'FAILED');default:'PENDING'" json:"refund_status"`
	Provider            string       `json:"provider,omitempty"`
	GatewayRefundID     string       `gorm:"index" json:"gateway_refund_id,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// TableName sets the table name for Cancellation
func (Cancellation) TableName() string {
	return "cancellations"
}

// RefundWebhookRequest is the gateway callback payload for refund settlement
type RefundWebhookRequest struct {
	GatewayRefundID string `json:"gateway_refund_id" binding:"required"`
	Status          string `json:"status" binding:"required,oneof=succeeded failed"`
}
