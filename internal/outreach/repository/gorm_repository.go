package repository

import (
	"context"
	"errors"
	"time"

	"governance-backend/internal/outreach/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormOutreachQueueRepository struct {
	db *gorm.DB
}

// NewGormOutreachQueueRepository creates a new GORM-based OutreachQueueRepository
func NewGormOutreachQueueRepository(db *gorm.DB) OutreachQueueRepository {
	return &gormOutreachQueueRepository{db: db}
}

func (r *gormOutreachQueueRepository) Create(ctx context.Context, item *domain.QueuedOutreachItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormOutreachQueueRepository) FindByID(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error) {
	var item domain.QueuedOutreachItem
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *gormOutreachQueueRepository) List(ctx context.Context, userID string, status domain.Status, limit, offset int) ([]*domain.QueuedOutreachItem, int64, error) {
	var total int64
	if err := r.scoped(ctx, userID, status).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.scoped(ctx, userID, status).Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var items []*domain.QueuedOutreachItem
	if err := query.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// scoped starts a fresh query so count and page never share a statement.
func (r *gormOutreachQueueRepository) scoped(ctx context.Context, userID string, status domain.Status) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.QueuedOutreachItem{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return query
}

func (r *gormOutreachQueueRepository) CountByStatus(ctx context.Context, userID string, status domain.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.QueuedOutreachItem{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

func (r *gormOutreachQueueRepository) Transition(ctx context.Context, userID, id string, from, to domain.Status, changes Changes) (bool, error) {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if changes.ReviewedAt != nil {
		updates["reviewed_at"] = *changes.ReviewedAt
	}
	if changes.ReviewedBy != nil {
		updates["reviewed_by"] = *changes.ReviewedBy
	}
	if changes.ReviewNote != nil {
		updates["review_note"] = *changes.ReviewNote
	}
	if changes.SentAt != nil {
		updates["sent_at"] = *changes.SentAt
	}
	if changes.SendError != nil {
		updates["send_error"] = *changes.SendError
	} else if changes.ClearSendError {
		updates["send_error"] = gorm.Expr("NULL")
	}

	result := r.db.WithContext(ctx).Model(&domain.QueuedOutreachItem{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, from).
		Updates(updates)
	return result.RowsAffected > 0, result.Error
}
