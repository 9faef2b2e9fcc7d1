package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const mailRequestTimeout = 10 * time.Second

// MailerConfig configures the HTTP mail API client.
type MailerConfig struct {
	Endpoint  string
	APIKey    string
	PerMinute int // outbound send cap; guards the provider quota
}

// Mailer sends mail through a JSON HTTP API (Resend-style: from, to,
// subject, html). A hung provider cannot stall callers: requests carry
// a bounded timeout.
type Mailer struct {
	cfg     MailerConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewMailer creates the mail transport client.
func NewMailer(cfg MailerConfig) *Mailer {
	perMinute := cfg.PerMinute
	if perMinute <= 0 {
		perMinute = 10
	}

	return &Mailer{
		cfg: cfg,
		client: &http.Client{
			Timeout: mailRequestTimeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

// Send implements Transport. A rate-limited send fails like any other
// transport failure; the dispatcher retries on the next raise.
func (m *Mailer) Send(ctx context.Context, msg *Message) error {
	if !m.limiter.Allow() {
		return ErrRateLimited
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if m.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status=%d body=%s", ErrMailStatus, resp.StatusCode, body)
	}

	return nil
}
