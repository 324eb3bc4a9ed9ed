// Package smsx delivers SMS messages through a pluggable sender.
// Delivery is best-effort everywhere in this service: callers log a
// failed send and move on, they never fail the enclosing operation.
package smsx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Sender sends a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, phone, body string) error
}

// LogSender writes messages to the log instead of sending them. This
// is the default in dev so the OTP shows up in the console.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, phone, body string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("sms (log sender)", "phone", phone, "body", body)
	return nil
}

// GatewaySender posts messages to an HTTP SMS gateway as JSON.
type GatewaySender struct {
	URL    string
	APIKey string
	From   string
	Client *http.Client
}

// NewGatewaySender builds a sender for the given gateway endpoint.
func NewGatewaySender(url, apiKey, from string) *GatewaySender {
	return &GatewaySender{
		URL:    url,
		APIKey: apiKey,
		From:   from,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayMessage struct {
	To   string `json:"to"`
	From string `json:"from,omitempty"`
	Body string `json:"body"`
}

func (s *GatewaySender) Send(ctx context.Context, phone, body string) error {
	payload, err := json.Marshal(gatewayMessage{To: phone, From: s.From, Body: body})
	if err != nil {
		return fmt.Errorf("smsx: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("smsx: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("smsx: send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("smsx: gateway returned %s", resp.Status)
	}
	return nil
}
