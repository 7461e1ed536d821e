package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Action names a governance decision recorded in the trail.
type Action string

const (
	ActionClassified   Action = "classified"
	ActionReclassified Action = "reclassified"
	ActionExcluded     Action = "excluded"
	ActionIncluded     Action = "included"
	ActionRuleCreated  Action = "rule_created"
	ActionRuleDeleted  Action = "rule_deleted"
	ActionRuleToggled  Action = "rule_toggled"

	ActionOutreachQueued     Action = "outreach_queued"
	ActionOutreachApproved   Action = "outreach_approved"
	ActionOutreachRejected   Action = "outreach_rejected"
	ActionOutreachCancelled  Action = "outreach_cancelled"
	ActionOutreachSent       Action = "outreach_sent"
	ActionOutreachSendFailed Action = "outreach_send_failed"
)

// AuditEntry is an immutable record of one governance-relevant action.
// Rows are only ever inserted.
type AuditEntry struct {
	ID                     string         `json:"id" gorm:"primaryKey"`
	UserID                 string         `json:"userId" gorm:"index:idx_audit_user_created;not null"`
	ConversationID         *string        `json:"conversationId,omitempty" gorm:"index"`
	RuleID                 *string        `json:"ruleId,omitempty"`
	QueueItemID            *string        `json:"queueItemId,omitempty" gorm:"index"`
	Action                 Action         `json:"action" gorm:"not null"`
	PreviousClassification *string        `json:"previousClassification,omitempty"`
	NewClassification      *string        `json:"newClassification,omitempty"`
	Method                 string         `json:"method"`
	Reason                 *string        `json:"reason,omitempty" gorm:"type:text"`
	Metadata               datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt              time.Time      `json:"createdAt" gorm:"index:idx_audit_user_created"`
}

// TableName specifies the table name for GORM
func (AuditEntry) TableName() string {
	return "governance_audit_log"
}

// Page is one slice of a user's trail.
type Page struct {
	Entries []*AuditEntry `json:"entries"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"hasMore"`
}

// StrPtr returns nil for an empty string.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
