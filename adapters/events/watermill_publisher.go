package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/balancebridge/bridge/ports"
)

const (
	// LookupTopic carries lookup lifecycle events
	LookupTopic = "bridge.lookup"
)

// LookupEvent is one lifecycle event of a lookup request.
type LookupEvent struct {
	RequestID          string `json:"request_id"`
	Stage              string `json:"stage"` // sent, resolved, failed
	Query              string `json:"query,omitempty"`
	ConfirmedBalance   int64  `json:"confirmed_balance,omitempty"`
	UnconfirmedBalance int64  `json:"unconfirmed_balance,omitempty"`
	Reason             string `json:"reason,omitempty"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     LookupTopic,
	}
}

// PublishLookupSent publishes a request-sent event.
func (p *WatermillPublisher) PublishLookupSent(ctx context.Context, requestID, query string) error {
	return p.publish(LookupEvent{RequestID: requestID, Stage: "sent", Query: query})
}

// PublishLookupResolved publishes a request-resolved event.
func (p *WatermillPublisher) PublishLookupResolved(ctx context.Context, requestID string, confirmed, unconfirmed int64) error {
	return p.publish(LookupEvent{
		RequestID:          requestID,
		Stage:              "resolved",
		ConfirmedBalance:   confirmed,
		UnconfirmedBalance: unconfirmed,
	})
}

// PublishLookupFailed publishes a request-failed event.
func (p *WatermillPublisher) PublishLookupFailed(ctx context.Context, requestID, reason string) error {
	return p.publish(LookupEvent{RequestID: requestID, Stage: "failed", Reason: reason})
}

func (p *WatermillPublisher) publish(event LookupEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.RequestID, payload)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
