package httpclient

import (
	"context"
	"net/http"

	"feeder-workbench/application/ports"
	"feeder-workbench/domain/identity"
)

// PaymentClient implements ports.PaymentService
type PaymentClient struct {
	client *Client
}

var _ ports.PaymentService = (*PaymentClient)(nil)

// NewPaymentClient creates a payment service client
func NewPaymentClient(client *Client) *PaymentClient {
	return &PaymentClient{client: client}
}

// CreateCheckout starts an upgrade with the chosen provider
func (c *PaymentClient) CreateCheckout(ctx context.Context, tier, provider string) (*identity.Checkout, error) {
	body := map[string]string{"tier": tier, "provider": provider}
	var out identity.Checkout
	err := c.client.do(ctx, call{
		operation:   "create_checkout",
		method:      http.MethodPost,
		path:        "/payments/create-checkout",
		body:        body,
		out:         &out,
		auth:        true,
		requireAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// History lists the operator's past payments
func (c *PaymentClient) History(ctx context.Context) ([]identity.Payment, error) {
	var out struct {
		Payments []identity.Payment `json:"payments"`
	}
	err := c.client.do(ctx, call{
		operation:   "payment_history",
		method:      http.MethodGet,
		path:        "/payments/history",
		out:         &out,
		auth:        true,
		requireAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return out.Payments, nil
}
