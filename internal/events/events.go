package events

import (
	"context"
	"time"
)

const TypeProfileStatusChanged = "profile.status_changed"

// StatusChanged is published whenever a persisted account status differs from the previous one.
type StatusChanged struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	Previous   string    `json:"previous_status"`
	Current    string    `json:"current_status"`
	Trigger    string    `json:"trigger"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishStatusChanged(ctx context.Context, evt StatusChanged) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishStatusChanged(context.Context, StatusChanged) error { return nil }
func (NopPublisher) Close() error                                              { return nil }
