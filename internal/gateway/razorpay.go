package gateway

import (
	"context"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/medibook/booking-api/internal/service/payment"
	"github.com/medibook/booking-api/pkg/circuitbreaker"
)

type razorpayGateway struct {
	client *razorpay.Client
	cb     *circuitbreaker.CircuitBreaker
}

// NewRazorpay wraps the Razorpay SDK behind the payment.Gateway interface
// with a circuit breaker around the remote calls.
func NewRazorpay(keyID, keySecret string) payment.Gateway {
	return &razorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "razorpay",
			MaxRequests: 5,
			Interval:    30 * time.Second,
			Timeout:     15 * time.Second,
		}),
	}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	var order map[string]interface{}
	err := g.cb.Execute(func() error {
		var err error
		order, err = g.client.Order.Create(data, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}
	return order, nil
}

func (g *razorpayGateway) FetchOrder(ctx context.Context, orderID string) (map[string]interface{}, error) {
	var order map[string]interface{}
	err := g.cb.Execute(func() error {
		var err error
		order, err = g.client.Order.Fetch(orderID, nil, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gateway order: %w", err)
	}
	return order, nil
}
