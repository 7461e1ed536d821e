package repository

import (
	"context"
	"errors"
	"time"

	"governance-backend/internal/conversation/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GORM-based ConversationRepository
func NewGormConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) CreateIfAbsent(ctx context.Context, conv *domain.Conversation) (bool, error) {
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "external_thread_id"}},
		DoNothing: true,
	}).Create(conv)
	return result.RowsAffected > 0, result.Error
}

func (r *gormConversationRepository) FindByID(ctx context.Context, userID, id string) (*domain.Conversation, error) {
	return r.first(ctx, "id = ? AND user_id = ?", id, userID)
}

func (r *gormConversationRepository) FindByThread(ctx context.Context, userID, externalThreadID string) (*domain.Conversation, error) {
	return r.first(ctx, "user_id = ? AND external_thread_id = ?", userID, externalThreadID)
}

func (r *gormConversationRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.Conversation, error) {
	var conv domain.Conversation
	if err := r.db.WithContext(ctx).Where(query, args...).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *gormConversationRepository) List(ctx context.Context, userID string, filter ListFilter) ([]*domain.Conversation, int64, error) {
	var total int64
	if err := r.scoped(ctx, userID, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.scoped(ctx, userID, filter).Order("updated_at DESC, id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var convs []*domain.Conversation
	if err := query.Find(&convs).Error; err != nil {
		return nil, 0, err
	}
	return convs, total, nil
}

func (r *gormConversationRepository) scoped(ctx context.Context, userID string, filter ListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Conversation{}).Where("user_id = ?", userID)
	if filter.Classification != "" {
		query = query.Where("classification = ?", filter.Classification)
	}
	if filter.Excluded != nil {
		query = query.Where("is_excluded = ?", *filter.Excluded)
	}
	return query
}

func (r *gormConversationRepository) UpdateClassification(ctx context.Context, userID, id string, from domain.Classification, update ClassificationUpdate) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Conversation{}).
		Where("id = ? AND user_id = ? AND classification = ?", id, userID, from).
		Updates(map[string]interface{}{
			"classification":            update.Classification,
			"classification_method":     update.Method,
			"classification_reason":     update.Reason,
			"classification_confidence": update.Confidence,
			"updated_at":                time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *gormConversationRepository) SetExcluded(ctx context.Context, userID, id string, excluded bool) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.Conversation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"is_excluded": excluded,
			"updated_at":  time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}
