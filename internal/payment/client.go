package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the external payment-link provider. The provider is opaque
// to us: one request, one response carrying a checkout URL and a QR payload.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type CheckoutRequest struct {
	OrderID     string `json:"order_id"`
	Amount      int64  `json:"amount"` // minor units
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	QRPayload   string `json:"qr_payload"`
}

func (c *Client) CreateCheckout(ctx context.Context, in CheckoutRequest) (*CheckoutResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/checkout", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment provider: status %d", resp.StatusCode)
	}

	var out CheckoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("payment provider: decode: %w", err)
	}
	if out.CheckoutURL == "" {
		return nil, fmt.Errorf("payment provider: empty checkout url")
	}
	return &out, nil
}
