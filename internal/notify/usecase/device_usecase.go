package usecase

import (
	"context"
	"strings"

	"governance-backend/internal/notify/repository"
	"governance-backend/pkg/apperror"
)

// DeviceUsecase manages the devices a reviewer receives pushes on
type DeviceUsecase interface {
	Register(ctx context.Context, userID, token, deviceInfo string) error
	Unregister(ctx context.Context, userID, token string) error
}

type deviceUsecase struct {
	tokens repository.DeviceTokenRepository
}

func NewDeviceUsecase(tokens repository.DeviceTokenRepository) DeviceUsecase {
	return &deviceUsecase{tokens: tokens}
}

func (u *deviceUsecase) Register(ctx context.Context, userID, token, deviceInfo string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperror.NewValidation("token", "is required")
	}
	if err := u.tokens.Save(ctx, userID, token, strings.TrimSpace(deviceInfo)); err != nil {
		return apperror.NewPersistence("register device", err)
	}
	return nil
}

func (u *deviceUsecase) Unregister(ctx context.Context, userID, token string) error {
	deleted, err := u.tokens.Delete(ctx, userID, token)
	if err != nil {
		return apperror.NewPersistence("unregister device", err)
	}
	if !deleted {
		return apperror.NewNotFound("device", "token")
	}
	return nil
}
