package domain

import (
	"time"

	leaddomain "governance-backend/internal/lead/domain"

	"gorm.io/datatypes"
)

// Status is the approval state of a queued outreach item
type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusSent            Status = "sent"
	StatusCancelled       Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusApproved, StatusRejected, StatusSent, StatusCancelled:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPendingApproval: {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:        {StatusSent},
}

// CanTransition reports whether an item may move from one status to another.
// Rejected, cancelled and sent are terminal.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Channel is the medium an outreach message is sent over
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelLinkedIn Channel = "linkedin"
	ChannelCall     Channel = "call"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelLinkedIn, ChannelCall:
		return true
	}
	return false
}

// QueuedOutreachItem is an outbound message held for human review. Rows are
// never deleted; status only moves along the edges in CanTransition.
type QueuedOutreachItem struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	UserID     string         `json:"userId" gorm:"index:idx_outreach_user_status;not null"`
	LeadID     string         `json:"leadId" gorm:"index;not null"`
	Channel    Channel        `json:"channel" gorm:"not null"`
	Subject    string         `json:"subject,omitempty"`
	Body       string         `json:"body" gorm:"type:text;not null"`
	Status     Status         `json:"status" gorm:"index:idx_outreach_user_status;not null"`
	ReviewedAt *time.Time     `json:"reviewedAt,omitempty"`
	ReviewedBy *string        `json:"reviewedBy,omitempty"`
	ReviewNote *string        `json:"reviewNote,omitempty" gorm:"type:text"`
	SentAt     *time.Time     `json:"sentAt,omitempty"`
	SendError  *string        `json:"sendError,omitempty" gorm:"type:text"`
	Metadata   datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`

	// Lead is display context attached on reads
	Lead *leaddomain.Summary `json:"lead,omitempty" gorm:"-"`
}

// TableName specifies the table name for GORM
func (QueuedOutreachItem) TableName() string {
	return "outreach_queue"
}

// OutreachRequest is what a caller submits to the gate. It is not persisted
// as such.
type OutreachRequest struct {
	LeadID   string                 `json:"leadId"`
	Channel  Channel                `json:"channel"`
	Subject  string                 `json:"subject"`
	Body     string                 `json:"body"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Outcome distinguishes what the gate did with a request
type Outcome string

const (
	OutcomeSimulated             Outcome = "simulated"
	OutcomeQueuedPendingApproval Outcome = "queued_pending_approval"
	OutcomeQueuedPendingLaunch   Outcome = "queued_pending_launch"
	OutcomeSent                  Outcome = "sent"
)

// QueueResult is the gate's answer
type QueueResult struct {
	Queued  bool    `json:"queued"`
	QueueID string  `json:"queueId,omitempty"`
	Sent    bool    `json:"sent"`
	Sandbox bool    `json:"sandbox"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}
