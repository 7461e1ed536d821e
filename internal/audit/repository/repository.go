package repository

import (
	"context"

	"governance-backend/internal/audit/domain"
)

// AuditRepository is append-only: there is no update or delete.
type AuditRepository interface {
	// Create inserts the entry. Re-inserting an existing ID is a no-op so
	// reconciler retries never duplicate rows.
	Create(ctx context.Context, entry *domain.AuditEntry) error

	// FindByUserID returns newest-first entries and the total count.
	// conversationID narrows the trail when non-empty.
	FindByUserID(ctx context.Context, userID, conversationID string, limit, offset int) ([]*domain.AuditEntry, int64, error)
}
