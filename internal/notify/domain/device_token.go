package domain

import "time"

// DeviceToken is a Firebase Cloud Messaging token of a reviewer's device
type DeviceToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"userId" gorm:"index;not null"`
	Token      string    `json:"-" gorm:"uniqueIndex;not null"` // never exposed
	DeviceInfo string    `json:"deviceInfo"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (DeviceToken) TableName() string {
	return "reviewer_device_tokens"
}
