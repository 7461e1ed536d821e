package repository

import (
	"context"

	"governance-backend/internal/audit/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormAuditRepository implements AuditRepository using GORM
type gormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM-based AuditRepository
func NewGormAuditRepository(db *gorm.DB) AuditRepository {
	return &gormAuditRepository{db: db}
}

func (r *gormAuditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(entry).Error
}

func (r *gormAuditRepository) FindByUserID(ctx context.Context, userID, conversationID string, limit, offset int) ([]*domain.AuditEntry, int64, error) {
	var entries []*domain.AuditEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.AuditEntry{}).Where("user_id = ?", userID)
	if conversationID != "" {
		query = query.Where("conversation_id = ?", conversationID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}
