package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turnstileServer(t *testing.T, response turnstileVerifyResponse) (*httptest.Server, *int) {
	t.Helper()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.PostFormValue("secret"))
		assert.NotEmpty(t, r.PostFormValue("response"))
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(srv.Close)

	return srv, &calls
}

func TestTurnstileVerifySuccess(t *testing.T) {
	srv, calls := turnstileServer(t, turnstileVerifyResponse{Success: true, Hostname: "folio.example.com"})

	v := newTurnstileVerifier(turnstileConfig{
		secretKey: "secret",
		verifyURL: srv.URL,
	})

	err := v.Verify(context.Background(), "tok-1", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}

func TestTurnstileVerifyRejected(t *testing.T) {
	srv, _ := turnstileServer(t, turnstileVerifyResponse{Success: false, ErrorCodes: []string{"invalid-input-response"}})

	v := newTurnstileVerifier(turnstileConfig{secretKey: "secret", verifyURL: srv.URL})

	err := v.Verify(context.Background(), "tok-1", "")
	assert.ErrorIs(t, err, ErrTurnstileFailed)
}

func TestTurnstileEmptyTokenSkipsNetwork(t *testing.T) {
	srv, calls := turnstileServer(t, turnstileVerifyResponse{Success: true})

	v := newTurnstileVerifier(turnstileConfig{secretKey: "secret", verifyURL: srv.URL})

	err := v.Verify(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrTurnstileFailed)
	assert.Equal(t, 0, *calls)
}

func TestTurnstileHostnameMismatch(t *testing.T) {
	srv, _ := turnstileServer(t, turnstileVerifyResponse{Success: true, Hostname: "evil.example.com"})

	v := newTurnstileVerifier(turnstileConfig{
		secretKey:        "secret",
		verifyURL:        srv.URL,
		expectedHostname: "folio.example.com",
	})

	err := v.Verify(context.Background(), "tok-1", "")
	assert.ErrorIs(t, err, ErrTurnstileFailed)
}
