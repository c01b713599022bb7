package cancellation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeRefundTiers(t *testing.T) {
	showtime := time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		originalAmount float64
		now            time.Time
		wantPercentage int
		wantAmount     float64
	}{
		{
			name:           "three hours before refunds in full",
			originalAmount: 1000,
			now:            showtime.Add(-3 * time.Hour),
			wantPercentage: 100,
			wantAmount:     1000,
		},
		{
			name:           "exactly two hours before refunds in full",
			originalAmount: 1000,
			now:            showtime.Add(-2 * time.Hour),
			wantPercentage: 100,
			wantAmount:     1000,
		},
		{
			name:           "ninety minutes before refunds three quarters",
			originalAmount: 1000,
			now:            showtime.Add(-90 * time.Minute),
			wantPercentage: 75,
			wantAmount:     750,
		},
		{
			name:           "exactly thirty minutes before refunds three quarters",
			originalAmount: 1000,
			now:            showtime.Add(-30 * time.Minute),
			wantPercentage: 75,
			wantAmount:     750,
		},
		{
			name:           "twenty minutes before refunds nothing",
			originalAmount: 1000,
			now:            showtime.Add(-20 * time.Minute),
			wantPercentage: 0,
			wantAmount:     0,
		},
		{
			name:           "after the showtime refunds nothing",
			originalAmount: 1000,
			now:            showtime.Add(time.Hour),
			wantPercentage: 0,
			wantAmount:     0,
		},
		{
			name:           "partial refund rounds to nearest unit",
			originalAmount: 333,
			now:            showtime.Add(-time.Hour),
			wantPercentage: 75,
			wantAmount:     250, // 249.75 rounds up
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := ComputeRefund(tt.originalAmount, showtime, tt.now)
			assert.Equal(t, tt.wantPercentage, quote.Percentage)
			assert.Equal(t, tt.wantAmount, quote.Amount)
		})
	}
}

func TestComputeRefundHoursBeforeShowtime(t *testing.T) {
	showtime := time.Date(2026, time.March, 14, 19, 0, 0, 0, time.UTC)
	quote := ComputeRefund(500, showtime, showtime.Add(-90*time.Minute))
	assert.InDelta(t, 1.5, quote.HoursBeforeShowtime, 1e-9)
}

func TestRefundStatusTerminal(t *testing.T) {
	assert.False(t, RefundPending.IsTerminal())
	assert.False(t, RefundProcessing.IsTerminal())
	assert.True(t, RefundCompleted.IsTerminal())
	assert.True(t, RefundFailed.IsTerminal())
}
