package repository

import (
	"context"

	"governance-backend/internal/filterrule/domain"
)

// FilterRuleRepository defines the interface for filter rule data access
type FilterRuleRepository interface {
	Create(ctx context.Context, rule *domain.FilterRule) error

	// FindByID returns nil, nil when the rule is missing or owned by someone else
	FindByID(ctx context.Context, userID, ruleID string) (*domain.FilterRule, error)

	// FindByUserID returns all rules of the user, oldest first
	FindByUserID(ctx context.Context, userID string) ([]*domain.FilterRule, error)

	// FindActiveByUserID returns only active rules, oldest first
	FindActiveByUserID(ctx context.Context, userID string) ([]*domain.FilterRule, error)

	// Delete removes the rule and reports whether a row was removed
	Delete(ctx context.Context, userID, ruleID string) (bool, error)

	// SetActive flips is_active only while it still equals from, and reports
	// whether the row was updated
	SetActive(ctx context.Context, userID, ruleID string, from, to bool) (bool, error)
}
