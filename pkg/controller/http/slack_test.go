package http_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	httpctrl "github.com/jeetu-ai/jeetu/pkg/controller/http"
	"github.com/jeetu-ai/jeetu/pkg/repository/memory"
	"github.com/jeetu-ai/jeetu/pkg/usecase"
	"github.com/m-mizutani/gt"
)

const testSigningSecret = "test-signing-secret"

// computeSlackSignature computes the Slack signature for testing
func computeSlackSignature(signingSecret, timestamp, body string) string {
	h := hmac.New(sha256.New, []byte(signingSecret))
	fmt.Fprintf(h, "v0:%s:%s", timestamp, body)
	return "v0=" + hex.EncodeToString(h.Sum(nil))
}

func TestVerifySlackSignature(t *testing.T) {
	body := []byte(`{"type":"url_verification","challenge":"test"}`)
	now := time.Now()
	timestamp := strconv.FormatInt(now.Unix(), 10)

	tests := []struct {
		name      string
		timestamp string
		signature string
		wantErr   bool
	}{
		{"valid signature", timestamp, computeSlackSignature(testSigningSecret, timestamp, string(body)), false},
		{"invalid signature", timestamp, "v0=invalid_signature", true},
		{"missing timestamp", "", computeSlackSignature(testSigningSecret, "123456", string(body)), true},
		{"missing signature", timestamp, "", true},
		{"invalid timestamp format", "not-a-number", computeSlackSignature(testSigningSecret, "not-a-number", string(body)), true},
		{"wrong secret", timestamp, computeSlackSignature("wrong-secret", timestamp, string(body)), true},
		{"different body", timestamp, computeSlackSignature(testSigningSecret, timestamp, "different body"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := httpctrl.VerifySlackSignature(testSigningSecret, tt.timestamp, tt.signature, body, now)
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}

	t.Run("timestamp too old", func(t *testing.T) {
		old := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)
		sig := computeSlackSignature(testSigningSecret, old, string(body))
		gt.Error(t, httpctrl.VerifySlackSignature(testSigningSecret, old, sig, body, now))
	})
}

func newSlackServer(t *testing.T) *httpctrl.Server {
	t.Helper()
	uc := usecase.New(memory.New())
	slackUC := usecase.NewSlackUseCases(uc.Group, newMockSlackService(), "jeetu")
	return httpctrl.New(uc, httpctrl.WithSlackWebhook(httpctrl.NewSlackWebhookHandler(slackUC), testSigningSecret))
}

func signedRequest(body string, timestamp time.Time, secret string) *http.Request {
	ts := strconv.FormatInt(timestamp.Unix(), 10)
	req := httptest.NewRequest(http.MethodPost, "/hooks/slack/event", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", computeSlackSignature(secret, ts, body))
	return req
}

func TestSlackWebhook(t *testing.T) {
	t.Run("url verification returns the challenge", func(t *testing.T) {
		srv := newSlackServer(t)
		body := `{"type":"url_verification","token":"x","challenge":"abc123"}`

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, signedRequest(body, time.Now(), testSigningSecret))

		gt.Number(t, rec.Code).Equal(http.StatusOK)
		got, err := io.ReadAll(rec.Body)
		gt.NoError(t, err).Required()
		gt.String(t, string(got)).Equal("abc123")
	})

	t.Run("callback event is acknowledged", func(t *testing.T) {
		srv := newSlackServer(t)
		body := `{"type":"event_callback","team_id":"T1","event":{"type":"message","user":"UANA","channel":"C1","text":"hello"}}`

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, signedRequest(body, time.Now(), testSigningSecret))
		gt.Number(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("bad signature is rejected", func(t *testing.T) {
		srv := newSlackServer(t)
		body := `{"type":"url_verification","challenge":"abc123"}`

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, signedRequest(body, time.Now(), "wrong-secret"))
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("replayed request is rejected", func(t *testing.T) {
		srv := newSlackServer(t)
		body := `{"type":"url_verification","challenge":"abc123"}`

		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, signedRequest(body, time.Now().Add(-time.Hour), testSigningSecret))
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("webhook is absent when not configured", func(t *testing.T) {
		srv := httpctrl.New(usecase.New(memory.New()))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, signedRequest(`{}`, time.Now(), testSigningSecret))
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})
}
