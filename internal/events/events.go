// Package events publishes domain events about accounts and transactions.
package events

import (
	"context"
	"time"
)

const (
	TypeTransactionCreated = "transaction.created"
	TypeAccountCreated     = "account.created"
)

type Event struct {
	ID         string         `json:"eventId"`
	Type       string         `json:"eventType"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
