package repository

import (
	"context"
	"errors"
	"time"

	"governance-backend/internal/filterrule/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormFilterRuleRepository implements FilterRuleRepository using GORM
type gormFilterRuleRepository struct {
	db *gorm.DB
}

// NewGormFilterRuleRepository creates a new GORM-based FilterRuleRepository
func NewGormFilterRuleRepository(db *gorm.DB) FilterRuleRepository {
	return &gormFilterRuleRepository{db: db}
}

func (r *gormFilterRuleRepository) Create(ctx context.Context, rule *domain.FilterRule) error {
	if rule.ID == "" {
		rule.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *gormFilterRuleRepository) FindByID(ctx context.Context, userID, ruleID string) (*domain.FilterRule, error) {
	var rule domain.FilterRule
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", ruleID, userID).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *gormFilterRuleRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.FilterRule, error) {
	var rules []*domain.FilterRule
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC, id ASC").Find(&rules).Error
	return rules, err
}

func (r *gormFilterRuleRepository) FindActiveByUserID(ctx context.Context, userID string) ([]*domain.FilterRule, error) {
	var rules []*domain.FilterRule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC, id ASC").
		Find(&rules).Error
	return rules, err
}

func (r *gormFilterRuleRepository) Delete(ctx context.Context, userID, ruleID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", ruleID, userID).Delete(&domain.FilterRule{})
	return result.RowsAffected > 0, result.Error
}

func (r *gormFilterRuleRepository) SetActive(ctx context.Context, userID, ruleID string, from, to bool) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.FilterRule{}).
		Where("id = ? AND user_id = ? AND is_active = ?", ruleID, userID, from).
		Updates(map[string]interface{}{
			"is_active":  to,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected > 0, result.Error
}
