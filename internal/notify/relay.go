// Package notify posts submission details to an external form-relay inbox.
// Delivery is best-effort: a 2xx means the admin was notified, anything else
// is reported by the caller and forgotten. There are no retries.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrRelayRejected = errors.New("relay endpoint rejected the notification")

type RelayClient struct {
	endpoint string
	client   *http.Client
}

func NewRelayClient(endpoint string) *RelayClient {
	return &RelayClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 8 * time.Second},
	}
}

// Send posts the fields form-encoded, the shape a hosted form inbox expects.
func (c *RelayClient) Send(ctx context.Context, fields map[string]string) error {
	if c.endpoint == "" {
		return errors.New("relay endpoint is not configured")
	}

	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRelayRejected, res.StatusCode)
	}
	return nil
}
