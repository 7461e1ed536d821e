// Package dispatch hands approved outreach items to the delivery side. This
// service never transmits messages itself; it publishes an envelope and
// only learns whether the hand-off succeeded.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"governance-backend/internal/outreach/domain"
)

// Adapter delivers one item. The result is success or failure, nothing more.
type Adapter interface {
	Deliver(ctx context.Context, item *domain.QueuedOutreachItem) error
}

// Publisher is a message broker client that can publish one payload.
type Publisher interface {
	Publish(ctx context.Context, body []byte, attributes map[string]string) error
}

// Envelope is the JSON payload published for each delivery.
type Envelope struct {
	ItemID      string          `json:"itemId"`
	UserID      string          `json:"userId"`
	LeadID      string          `json:"leadId"`
	Channel     domain.Channel  `json:"channel"`
	Subject     string          `json:"subject,omitempty"`
	Body        string          `json:"body"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	ApprovedAt  *time.Time      `json:"approvedAt,omitempty"`
	ApprovedBy  *string         `json:"approvedBy,omitempty"`
	PublishedAt time.Time       `json:"publishedAt"`
}

func NewEnvelope(item *domain.QueuedOutreachItem, now time.Time) Envelope {
	env := Envelope{
		ItemID:      item.ID,
		UserID:      item.UserID,
		LeadID:      item.LeadID,
		Channel:     item.Channel,
		Subject:     item.Subject,
		Body:        item.Body,
		ApprovedAt:  item.ReviewedAt,
		ApprovedBy:  item.ReviewedBy,
		PublishedAt: now.UTC(),
	}
	if len(item.Metadata) > 0 {
		env.Metadata = json.RawMessage(item.Metadata)
	}
	return env
}

// PublisherAdapter delivers items by publishing their envelope.
type PublisherAdapter struct {
	backend   string
	publisher Publisher
}

// NewPublisherAdapter wraps publisher. backend names it in logs and errors.
func NewPublisherAdapter(backend string, publisher Publisher) *PublisherAdapter {
	return &PublisherAdapter{backend: backend, publisher: publisher}
}

func (a *PublisherAdapter) Deliver(ctx context.Context, item *domain.QueuedOutreachItem) error {
	body, err := json.Marshal(NewEnvelope(item, time.Now()))
	if err != nil {
		return fmt.Errorf("encode envelope for %s: %w", item.ID, err)
	}

	attrs := map[string]string{
		"itemId":  item.ID,
		"userId":  item.UserID,
		"channel": string(item.Channel),
	}
	if err := a.publisher.Publish(ctx, body, attrs); err != nil {
		return fmt.Errorf("%s delivery of %s: %w", a.backend, item.ID, err)
	}

	log.Printf("[Dispatch] Item %s handed to %s", item.ID, a.backend)
	return nil
}
