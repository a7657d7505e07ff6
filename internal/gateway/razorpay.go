package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayClient implements Client against the Razorpay Orders API.
type RazorpayClient struct {
	client *razorpay.Client
}

// NewRazorpayClient creates a gateway client authenticated with the given
// API key pair.
func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateIntent opens one Razorpay order. The SDK does not accept a context;
// ctx is kept for interface symmetry and future transports.
func (c *RazorpayClient) CreateIntent(_ context.Context, amount int64, currency, receipt string, md Metadata) (*Intent, error) {
	notes, err := md.Notes()
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}
	body, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %v", ErrUnavailable, err)
	}

	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: create order returned no id", ErrUnavailable)
	}
	return &Intent{ID: id, Amount: amount, Currency: currency, Metadata: md}, nil
}

// FetchIntent retrieves a Razorpay order with the notes written at creation.
func (c *RazorpayClient) FetchIntent(_ context.Context, orderID string) (*Intent, error) {
	body, err := c.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch order %s: %v", ErrUnavailable, orderID, err)
	}

	intent := &Intent{ID: orderID}
	if amount, ok := body["amount"].(float64); ok {
		intent.Amount = int64(amount)
	}
	intent.Currency, _ = body["currency"].(string)

	notes, ok := body["notes"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("fetch order %s: notes missing or malformed", orderID)
	}
	md, err := MetadataFromNotes(notes)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", orderID, err)
	}
	intent.Metadata = md
	return intent, nil
}
