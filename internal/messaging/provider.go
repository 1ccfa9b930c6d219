// Package messaging holds the outbound WhatsApp provider clients.
package messaging

import (
	"context"
	"net/http"
	"time"

	"feiraja/internal/config"
)

// DefaultTimeout ограничивает каждый вызов провайдера.
const DefaultTimeout = 10 * time.Second

type SandboxInstructions struct {
	Required      bool   `json:"required"`
	Message       string `json:"message"`
	SandboxNumber string `json:"sandboxNumber"`
}

type Result struct {
	MessageID           string
	Status              string
	WhatsAppLink        string
	SandboxInstructions *SandboxInstructions
}

// Provider sends a rendered text body to a phone number and normalizes its own
// failures into *DeliveryError.
type Provider interface {
	Name() string
	Send(ctx context.Context, phone, body string) (*Result, error)
}

// FromConfig returns the configured providers in fallback order: Meta first, then Twilio.
// An empty slice means simulation mode.
func FromConfig(wa config.WhatsAppConfig, tw config.TwilioConfig, client *http.Client) []Provider {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	var out []Provider
	if wa.Configured() {
		out = append(out, NewMetaClient(wa, client))
	}
	if tw.Configured() {
		out = append(out, NewTwilioClient(tw, client))
	}
	return out
}
