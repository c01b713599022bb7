package payments

import (
	"context"
	"testing"

	"cinebook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryResolvesProviders(t *testing.T) {
	log := logger.New()
	registry := NewRegistry(
		NewStripeGateway(log),
		NewOmiseGateway(log),
		NewPayPalGateway(log),
	)

	for _, name := range []string{"stripe", "omise", "paypal", "Stripe", "PAYPAL"} {
		gateway, err := registry.Get(name)
		require.NoError(t, err, "provider %s", name)
		assert.NotNil(t, gateway)
	}

	_, err := registry.Get("square")
	assert.Error(t, err)

	assert.Len(t, registry.Providers(), 3)
}

func TestSimulatedGatewayRefund(t *testing.T) {
	gateway := NewStripeGateway(logger.New())
	ctx := context.Background()

	result, err := gateway.Refund(ctx, "pi_abc123", 375)
	require.NoError(t, err)
	assert.Equal(t, RefundAccepted, result.Status)
	assert.NotEmpty(t, result.GatewayRefundID)

	other, err := gateway.Refund(ctx, "pi_abc123", 375)
	require.NoError(t, err)
	assert.NotEqual(t, result.GatewayRefundID, other.GatewayRefundID)
}

func TestSimulatedGatewayRejectsBadRequests(t *testing.T) {
	gateway := NewOmiseGateway(logger.New())
	ctx := context.Background()

	result, err := gateway.Refund(ctx, "", 100)
	assert.Error(t, err)
	assert.Equal(t, RefundRejected, result.Status)

	result, err = gateway.Refund(ctx, "chrg_1", 0)
	assert.Error(t, err)
	assert.Equal(t, RefundRejected, result.Status)
}
