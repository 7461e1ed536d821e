package repository

import (
	"context"
	"time"

	"governance-backend/internal/notify/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceTokenRepository defines the interface for device token operations
type DeviceTokenRepository interface {
	// Save registers token for userID, moving it over if another user had it
	Save(ctx context.Context, userID, token, deviceInfo string) error
	FindByUserID(ctx context.Context, userID string) ([]domain.DeviceToken, error)
	// Delete removes one of the user's tokens and reports whether it existed
	Delete(ctx context.Context, userID, token string) (bool, error)
	// DeleteTokens removes tokens the push service rejected
	DeleteTokens(ctx context.Context, tokens []string) error
}

type deviceTokenRepository struct {
	db *gorm.DB
}

// NewDeviceTokenRepository creates a new instance of deviceTokenRepository
func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

func (r *deviceTokenRepository) Save(ctx context.Context, userID, token, deviceInfo string) error {
	now := time.Now().UTC()
	row := &domain.DeviceToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// INSERT ... ON CONFLICT (token) DO UPDATE
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "device_info", "updated_at"}),
	}).Create(row).Error
}

func (r *deviceTokenRepository) FindByUserID(ctx context.Context, userID string) ([]domain.DeviceToken, error) {
	var tokens []domain.DeviceToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&tokens).Error
	return tokens, err
}

func (r *deviceTokenRepository) Delete(ctx context.Context, userID, token string) (bool, error) {
	result := r.db.WithContext(ctx).Where("user_id = ? AND token = ?", userID, token).Delete(&domain.DeviceToken{})
	return result.RowsAffected > 0, result.Error
}

func (r *deviceTokenRepository) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("token IN ?", tokens).Delete(&domain.DeviceToken{}).Error
}
