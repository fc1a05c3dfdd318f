package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrTurnstileFailed = errors.New("turnstile validation failed")

// captchaVerifier checks the one-time challenge token attached to a
// submission. Cloudflare consumes a token on first verify, so every submit
// attempt needs a fresh solve.
type captchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type turnstileVerifyResponse struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
	Action      string   `json:"action"`
	CData       string   `json:"cdata"`
}

type turnstileVerifier struct {
	cfg    turnstileConfig
	client *http.Client
}

func newTurnstileVerifier(cfg turnstileConfig) *turnstileVerifier {
	return &turnstileVerifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 8 * time.Second},
	}
}

func (v *turnstileVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return ErrTurnstileFailed
	}
	if v.cfg.secretKey == "" {
		return errors.New("TURNSTILE_SECRET_KEY is not set")
	}

	form := url.Values{}
	form.Set("secret", v.cfg.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.cfg.verifyURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var out turnstileVerifyResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return err
	}

	if !out.Success {
		return ErrTurnstileFailed
	}

	// Optional hardening: verify hostname
	if v.cfg.expectedHostname != "" && out.Hostname != v.cfg.expectedHostname {
		return ErrTurnstileFailed
	}

	return nil
}
