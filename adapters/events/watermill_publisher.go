package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/stepup-labs/certauth/ports"
)

// LoginEvent represents a successful challenge-response login
type LoginEvent struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     "certauth.login",
	}
}

// PublishLogin publishes a login event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, userID string, sessionID string) error {
	event := LoginEvent{
		UserID:    userID,
		SessionID: sessionID,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(sessionID, payload)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NopPublisher discards login events, for single-instance runs with no broker.
type NopPublisher struct{}

// PublishLogin drops the event
func (NopPublisher) PublishLogin(ctx context.Context, userID string, sessionID string) error {
	return nil
}
