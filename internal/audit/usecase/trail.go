package usecase

import (
	"context"
	"log"
	"time"

	"governance-backend/internal/audit/domain"
	"governance-backend/internal/audit/repository"
	"governance-backend/pkg/apperror"

	"github.com/google/uuid"
)

// Recorder is what mutating use cases depend on to append audit entries.
type Recorder interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
}

// Trail writes audit entries synchronously. A failed write is never silent:
// it is logged as an audit gap, handed to the reconciler and reported to the
// caller as *apperror.PartialAuditFailure.
type Trail struct {
	repo       repository.AuditRepository
	reconciler *Reconciler
}

// NewTrail creates a Trail. reconciler may be nil.
func NewTrail(repo repository.AuditRepository, reconciler *Reconciler) *Trail {
	return &Trail{repo: repo, reconciler: reconciler}
}

func (t *Trail) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if len(entry.Metadata) == 0 {
		entry.Metadata = domain.EmptyMetadata
	}

	if err := t.repo.Create(ctx, entry); err != nil {
		log.Printf("[AUDIT-GAP] action=%s entry=%s user=%s: %v", entry.Action, entry.ID, entry.UserID, err)
		if t.reconciler != nil {
			t.reconciler.Enqueue(entry)
		}
		return &apperror.PartialAuditFailure{Action: string(entry.Action), EntryID: entry.ID, Err: err}
	}
	return nil
}
