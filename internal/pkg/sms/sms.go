package sms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Sender defines the interface for outbound SMS delivery.
type Sender interface {
	Send(toPhone, body string) error
}

// GatewayConfig holds configuration for an HTTP SMS gateway.
type GatewayConfig struct {
	URL    string
	APIKey string
	From   string
}

// GatewaySender posts messages to a JSON SMS gateway endpoint.
type GatewaySender struct {
	config GatewayConfig
	client *http.Client
	logger zerolog.Logger
}

// NewGatewaySender creates a gateway-backed sender.
func NewGatewaySender(config GatewayConfig, logger zerolog.Logger) *GatewaySender {
	return &GatewaySender{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Send delivers a single SMS. When the gateway is not configured the message is
// logged instead so development environments work without a provider account.
func (s *GatewaySender) Send(toPhone, body string) error {
	if s.config.URL == "" || s.config.APIKey == "" {
		s.logger.Warn().
			Str("toPhone", toPhone).
			Msg("SMS gateway not configured - message logged instead of sent")
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"from": s.config.From,
		"to":   toPhone,
		"body": body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode SMS payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call SMS gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	s.logger.Debug().Str("toPhone", toPhone).Msg("SMS sent")
	return nil
}

// ConsoleSender writes messages to the log. Used in tests and local setups.
type ConsoleSender struct {
	logger zerolog.Logger
}

// NewConsoleSender creates a log-only sender.
func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(toPhone, body string) error {
	s.logger.Info().Str("toPhone", toPhone).Str("body", body).Msg("Console SMS sender")
	return nil
}
