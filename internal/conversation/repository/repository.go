package repository

import (
	"context"

	"governance-backend/internal/conversation/domain"
)

// ListFilter narrows a conversation listing. Zero values mean no filter;
// Limit 0 returns everything.
type ListFilter struct {
	Classification domain.Classification
	Excluded       *bool
	Limit          int
	Offset         int
}

// ClassificationUpdate is the new classification state written by a reclassify.
type ClassificationUpdate struct {
	Classification domain.Classification
	Method         domain.Method
	Reason         string
	Confidence     float64
}

// ConversationRepository defines the interface for conversation data access
type ConversationRepository interface {
	// CreateIfAbsent inserts conv unless the user already imported the same
	// thread, and reports whether a row was inserted
	CreateIfAbsent(ctx context.Context, conv *domain.Conversation) (bool, error)

	// FindByID returns nil, nil when missing or owned by someone else
	FindByID(ctx context.Context, userID, id string) (*domain.Conversation, error)

	// FindByThread returns nil, nil when the thread was never imported
	FindByThread(ctx context.Context, userID, externalThreadID string) (*domain.Conversation, error)

	List(ctx context.Context, userID string, filter ListFilter) ([]*domain.Conversation, int64, error)

	// UpdateClassification applies update only while the stored classification
	// still equals from
	UpdateClassification(ctx context.Context, userID, id string, from domain.Classification, update ClassificationUpdate) (bool, error)

	// SetExcluded stores the exclusion flag and reports whether the row exists
	SetExcluded(ctx context.Context, userID, id string, excluded bool) (bool, error)
}
