package repository

import (
	"context"

	"governance-backend/internal/lead/domain"

	"gorm.io/gorm"
)

// LeadProvider is the read-only view of the user's leads.
type LeadProvider interface {
	// ListByUserID returns every lead of the user.
	ListByUserID(ctx context.Context, userID string) ([]*domain.Lead, error)
	// FindByIDs returns the user's leads among ids, keyed by ID.
	FindByIDs(ctx context.Context, userID string, ids []string) (map[string]*domain.Lead, error)
}

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadProvider {
	return &leadRepository{db: db}
}

func (r *leadRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Lead, error) {
	var leads []*domain.Lead
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&leads).Error
	return leads, err
}

func (r *leadRepository) FindByIDs(ctx context.Context, userID string, ids []string) (map[string]*domain.Lead, error) {
	if len(ids) == 0 {
		return map[string]*domain.Lead{}, nil
	}

	var leads []*domain.Lead
	err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Find(&leads).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]*domain.Lead, len(leads))
	for _, l := range leads {
		result[l.ID] = l
	}
	return result, nil
}
