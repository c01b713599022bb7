package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

// RefundStatus mirrors the gateway's view of a refund request.
type RefundStatus string

const (
	RefundAccepted RefundStatus = "ACCEPTED"
	RefundRejected RefundStatus = "REJECTED"
)

// RefundResult is the gateway's synchronous answer to a refund request.
// Final settlement arrives later via webhook.
type RefundResult struct {
	GatewayRefundID string
	Status          RefundStatus
}

// Gateway abstracts a payment provider's refund API. Only the refund
// contract is modelled; charge flows are handled by the providers'
// hosted checkout pages.
type Gateway interface {
	Name() string
	Refund(ctx context.Context, gatewayPaymentID string, amount float64) (*RefundResult, error)
}

// Registry resolves a Gateway by provider name.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[strings.ToLower(g.Name())] = g
	}
	return r
}

func (r *Registry) Get(provider string) (Gateway, error) {
	g, ok := r.gateways[strings.ToLower(provider)]
	if !ok {
		return nil, fmt.Errorf("unknown payment provider %q", provider)
	}
	return g, nil
}

// Providers returns the registered provider names.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.gateways))
	for name := range r.gateways {
		names = append(names, name)
	}
	return names
}

// simulatedGateway stands in for a real provider SDK. It accepts every
// well-formed refund and issues a synthetic refund ID.
type simulatedGateway struct {
	name   string
	prefix string
	logger *logger.Logger
}

func newSimulatedGateway(name, prefix string, log *logger.Logger) Gateway {
	return &simulatedGateway{name: name, prefix: prefix, logger: log}
}

func (g *simulatedGateway) Name() string {
	return g.name
}

func (g *simulatedGateway) Refund(ctx context.Context, gatewayPaymentID string, amount float64) (*RefundResult, error) {
	if gatewayPaymentID == "" {
		return &RefundResult{Status: RefundRejected}, fmt.Errorf("missing gateway payment id")
	}
	if amount <= 0 {
		return &RefundResult{Status: RefundRejected}, fmt.Errorf("refund amount must be positive, got %.2f", amount)
	}

	refundID := fmt.Sprintf("%s_%s", g.prefix, uuid.New().String())
	g.logger.InfoWithContext(ctx, "Refund submitted to gateway", map[string]interface{}{
		"provider":           g.name,
		"gateway_payment_id": gatewayPaymentID,
		"gateway_refund_id":  refundID,
		"amount":             amount,
		"submitted_at":       time.Now(),
	})
	return &RefundResult{GatewayRefundID: refundID, Status: RefundAccepted}, nil
}

// NewStripeGateway returns the stripe refund client.
func NewStripeGateway(log *logger.Logger) Gateway {
	return newSimulatedGateway("stripe", "re", log)
}

// NewOmiseGateway returns the omise refund client.
func NewOmiseGateway(log *logger.Logger) Gateway {
	return newSimulatedGateway("omise", "rfnd", log)
}

// NewPayPalGateway returns the paypal refund client.
func NewPayPalGateway(log *logger.Logger) Gateway {
	return newSimulatedGateway("paypal", "PAYID-R", log)
}
