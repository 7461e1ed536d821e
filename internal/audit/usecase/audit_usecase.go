package usecase

import (
	"context"

	"governance-backend/internal/audit/domain"
	"governance-backend/internal/audit/repository"
	"governance-backend/pkg/apperror"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// AuditUsecase is the read surface of the trail.
type AuditUsecase interface {
	// List returns one newest-first page of the user's trail.
	List(ctx context.Context, userID, conversationID string, limit, offset int) (*domain.Page, error)
}

type auditUsecase struct {
	repo repository.AuditRepository
}

// NewAuditUsecase creates a new instance of auditUsecase
func NewAuditUsecase(repo repository.AuditRepository) AuditUsecase {
	return &auditUsecase{repo: repo}
}

func (u *auditUsecase) List(ctx context.Context, userID, conversationID string, limit, offset int) (*domain.Page, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, total, err := u.repo.FindByUserID(ctx, userID, conversationID, limit, offset)
	if err != nil {
		return nil, apperror.NewPersistence("list audit entries", err)
	}
	if entries == nil {
		entries = []*domain.AuditEntry{}
	}

	return &domain.Page{
		Entries: entries,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(entries)) < total,
	}, nil
}
