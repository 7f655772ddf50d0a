// Package payments integrates the external card processor: intent creation
// for coin top-ups and verification of its signed webhooks.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
}

type Client struct {
	baseURL   string
	secretKey string
	hc        *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		hc:        &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateIntent registers a payment of amountCents with the processor.
// Metadata travels back on the success webhook, which is how the credit
// finds its user. The call is retried with backoff; the idempotency key
// keeps retries from creating duplicate intents.
func (c *Client) CreateIntent(ctx context.Context, amountCents int64, metadata map[string]string) (Intent, error) {
	body, err := json.Marshal(map[string]any{
		"amount":   amountCents,
		"currency": "usd",
		"metadata": metadata,
	})
	if err != nil {
		return Intent{}, err
	}
	idemKey := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return Intent{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/v1/payment_intents", bytes.NewReader(body))
		if err != nil {
			return Intent{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.secretKey)
		req.Header.Set("Idempotency-Key", idemKey)

		resp, err := c.hc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("payment processor: status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode >= 300 {
			resp.Body.Close()
			return Intent{}, fmt.Errorf("payment processor: status %d", resp.StatusCode)
		}

		var in Intent
		err = json.NewDecoder(resp.Body).Decode(&in)
		resp.Body.Close()
		if err != nil {
			return Intent{}, err
		}
		return in, nil
	}
	return Intent{}, lastErr
}
