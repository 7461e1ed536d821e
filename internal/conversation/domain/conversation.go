package domain

import "time"

// Classification is the label assigned to a conversation
type Classification string

const (
	ClassificationProfessional Classification = "professional"
	ClassificationPersonal     Classification = "personal"
	ClassificationUnclassified Classification = "unclassified"
)

// Valid reports whether c is one of the three labels.
func (c Classification) Valid() bool {
	switch c {
	case ClassificationProfessional, ClassificationPersonal, ClassificationUnclassified:
		return true
	}
	return false
}

// Method records how a classification was decided
type Method string

const (
	MethodAuto   Method = "auto"
	MethodManual Method = "manual"
	MethodRule   Method = "rule"
)

// Conversation is an imported LinkedIn thread. It is mutated only by
// reclassify and exclusion actions and never deleted.
type Conversation struct {
	ID                       string         `json:"id" gorm:"primaryKey"`
	UserID                   string         `json:"userId" gorm:"uniqueIndex:idx_conv_user_thread;index;not null"`
	ExternalThreadID         string         `json:"externalThreadId" gorm:"uniqueIndex:idx_conv_user_thread;not null"`
	ParticipantName          string         `json:"participantName" gorm:"not null"`
	ParticipantRef           string         `json:"participantRef,omitempty"`
	Relationship             string         `json:"relationship,omitempty"`
	Classification           Classification `json:"classification" gorm:"index;not null;default:unclassified"`
	ClassificationMethod     Method         `json:"classificationMethod" gorm:"not null;default:auto"`
	ClassificationReason     string         `json:"classificationReason" gorm:"type:text"`
	ClassificationConfidence float64        `json:"classificationConfidence"`
	IsExcluded               bool           `json:"isExcluded" gorm:"not null;default:false"`
	LastMessagePreview       string         `json:"lastMessagePreview,omitempty" gorm:"type:text"`
	CreatedAt                time.Time      `json:"createdAt"`
	UpdatedAt                time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Conversation) TableName() string {
	return "linkedin_conversations"
}
