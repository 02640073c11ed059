package captcha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
)

// MCaptcha verifies tokens against an mCaptcha siteverify endpoint. Each
// attempt is bounded by the configured timeout; transient failures are
// retried with exponential backoff before the verifier gives up and reports
// an error to the gate.
type MCaptcha struct {
	endpoint string
	siteKey  string
	secret   string
	timeout  time.Duration
	client   *http.Client
}

func NewMCaptcha(endpoint, siteKey, secret string, timeout time.Duration) *MCaptcha {
	return &MCaptcha{
		endpoint: endpoint,
		siteKey:  siteKey,
		secret:   secret,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

type siteverifyRequest struct {
	Token  string `json:"token"`
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

type siteverifyResponse struct {
	Valid bool `json:"valid"`
}

// Verify posts the token to the siteverify endpoint and returns the
// provider's verdict.
func (m *MCaptcha) Verify(ctx context.Context, token string) (bool, error) {
	payload, err := json.Marshal(siteverifyRequest{Token: token, Key: m.siteKey, Secret: m.secret})
	if err != nil {
		return false, fmt.Errorf("marshaling siteverify request: %w", err)
	}

	var valid bool

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, m.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, m.endpoint, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := m.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("siteverify returned status %d", resp.StatusCode)
		}

		var out siteverifyResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return err
		}
		valid = out.Valid
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return false, fmt.Errorf("captcha verification failed: %w", err)
	}

	return valid, nil
}
