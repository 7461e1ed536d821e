package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	convdomain "governance-backend/internal/conversation/domain"
)

// RuleType is the kind of match a filter rule performs
type RuleType string

const (
	RuleTypeKeyword      RuleType = "keyword"
	RuleTypeParticipant  RuleType = "participant"
	RuleTypeRelationship RuleType = "relationship"
	RuleTypePattern      RuleType = "pattern"
)

// Valid reports whether t is one of the four rule kinds.
func (t RuleType) Valid() bool {
	switch t {
	case RuleTypeKeyword, RuleTypeParticipant, RuleTypeRelationship, RuleTypePattern:
		return true
	}
	return false
}

// Precedence orders rule types from most to least specific; lower wins.
func (t RuleType) Precedence() int {
	switch t {
	case RuleTypeParticipant:
		return 0
	case RuleTypeRelationship:
		return 1
	case RuleTypePattern:
		return 2
	default:
		return 3
	}
}

// FilterRule is a user-owned classification rule
type FilterRule struct {
	ID             string                    `json:"id" gorm:"primaryKey"`
	UserID         string                    `json:"userId" gorm:"index;not null"`
	RuleType       RuleType                  `json:"ruleType" gorm:"not null"`
	RuleValue      string                    `json:"ruleValue" gorm:"not null"`
	Classification convdomain.Classification `json:"classification" gorm:"not null"`
	IsActive       bool                      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt      time.Time                 `json:"createdAt"`
	UpdatedAt      time.Time                 `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (FilterRule) TableName() string {
	return "conversation_filter_rules"
}

// Snapshot captures the rule as it is at the moment of an audited action.
func (r *FilterRule) Snapshot() map[string]any {
	return map[string]any{
		"ruleType":       r.RuleType,
		"ruleValue":      r.RuleValue,
		"classification": r.Classification,
		"isActive":       r.IsActive,
	}
}

// NormalizeText lower-cases, trims and collapses whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeValue prepares a rule value for storage. Patterns keep their
// exact form; every other kind is matched against normalized text.
func NormalizeValue(t RuleType, value string) string {
	if t == RuleTypePattern {
		return strings.TrimSpace(value)
	}
	return NormalizeText(value)
}

// CompilePattern compiles a pattern rule value, case-insensitively.
func CompilePattern(value string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + value)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", value, err)
	}
	return re, nil
}
