// Package payment verifies transactions against the payment provider. The
// chat core never talks to the provider directly; the HTTP layer calls
// Verify after the client completes payment.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	errx "github.com/errandboy/server/internal/core/error"
	logx "github.com/errandboy/server/pkg/logger"
)

// Verification is the normalized result of a transaction lookup. Data is
// the provider's raw transaction payload, passed through to the client.
type Verification struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Gateway verifies a payment reference with the provider.
type Gateway interface {
	Verify(ctx context.Context, reference string) (*Verification, error)
}

// Config holds the Paystack credentials.
type Config struct {
	SecretKey string `envconfig:"PAYSTACK_SECRET_KEY" required:"true"`
	BaseURL   string `envconfig:"PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
}

// Paystack implements Gateway over the Paystack transaction verify API.
type Paystack struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystack(cfg Config) *Paystack {
	return &Paystack{
		secretKey: cfg.SecretKey,
		baseURL:   cfg.BaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *Paystack) Verify(ctx context.Context, reference string) (*Verification, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errx.WrapTransport(err)
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		logx.Error().Err(err).Str("reference", reference).Msg("paystack verify request failed")
		return nil, errx.WrapTransport(err)
	}
	defer resp.Body.Close()

	var payload struct {
		Status  bool            `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logx.Error().Err(err).Str("reference", reference).Msg("paystack verify response unreadable")
		return nil, errx.WrapTransport(err)
	}

	if !payload.Status {
		return &Verification{Success: false, Error: payload.Message}, nil
	}
	return &Verification{Success: true, Data: payload.Data}, nil
}

var _ Gateway = (*Paystack)(nil)
