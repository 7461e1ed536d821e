package repository

import (
	"context"
	"time"

	"governance-backend/internal/outreach/domain"
)

// Changes are the columns written together with a status transition.
// Nil fields are left untouched.
type Changes struct {
	ReviewedAt     *time.Time
	ReviewedBy     *string
	ReviewNote     *string
	SentAt         *time.Time
	SendError      *string
	ClearSendError bool
}

// Apply copies the changes onto item.
func (c Changes) Apply(item *domain.QueuedOutreachItem) {
	if c.ReviewedAt != nil {
		item.ReviewedAt = c.ReviewedAt
	}
	if c.ReviewedBy != nil {
		item.ReviewedBy = c.ReviewedBy
	}
	if c.ReviewNote != nil {
		item.ReviewNote = c.ReviewNote
	}
	if c.SentAt != nil {
		item.SentAt = c.SentAt
	}
	if c.SendError != nil {
		item.SendError = c.SendError
	} else if c.ClearSendError {
		item.SendError = nil
	}
}

// OutreachQueueRepository defines the interface for outreach queue data access
type OutreachQueueRepository interface {
	Create(ctx context.Context, item *domain.QueuedOutreachItem) error

	// FindByID returns nil, nil when missing or owned by someone else
	FindByID(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error)

	// List returns items newest first. An empty status lists all; limit 0
	// returns the full list.
	List(ctx context.Context, userID string, status domain.Status, limit, offset int) ([]*domain.QueuedOutreachItem, int64, error)

	CountByStatus(ctx context.Context, userID string, status domain.Status) (int64, error)

	// Transition moves the item from one status to another only while it is
	// still in from, and reports whether the row was updated. from may equal
	// to for updates that keep the status.
	Transition(ctx context.Context, userID, id string, from, to domain.Status, changes Changes) (bool, error)
}
