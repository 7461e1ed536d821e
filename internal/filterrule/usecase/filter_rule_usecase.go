package usecase

import (
	"context"
	"strings"

	auditdomain "governance-backend/internal/audit/domain"
	auditusecase "governance-backend/internal/audit/usecase"
	convdomain "governance-backend/internal/conversation/domain"
	"governance-backend/internal/filterrule/domain"
	"governance-backend/internal/filterrule/repository"
	"governance-backend/pkg/apperror"
)

// FilterRuleUsecase defines the interface for filter rule business logic
type FilterRuleUsecase interface {
	// ListRules returns all rules of the user, oldest first
	ListRules(ctx context.Context, userID string) ([]*domain.FilterRule, error)

	// CreateRule validates and stores a new active rule
	CreateRule(ctx context.Context, userID string, req CreateRuleRequest) (*domain.FilterRule, error)

	// DeleteRule removes a rule and returns the deleted row
	DeleteRule(ctx context.Context, userID, ruleID string) (*domain.FilterRule, error)

	// SetRuleActive activates or deactivates a rule
	SetRuleActive(ctx context.Context, userID, ruleID string, active bool) (*domain.FilterRule, error)
}

// CreateRuleRequest carries the raw values of a new rule
type CreateRuleRequest struct {
	RuleType       string `json:"ruleType"`
	RuleValue      string `json:"ruleValue"`
	Classification string `json:"classification"`
}

type filterRuleUsecase struct {
	ruleRepo repository.FilterRuleRepository
	audit    auditusecase.Recorder
}

// NewFilterRuleUsecase creates a new instance of filterRuleUsecase
func NewFilterRuleUsecase(ruleRepo repository.FilterRuleRepository, audit auditusecase.Recorder) FilterRuleUsecase {
	return &filterRuleUsecase{ruleRepo: ruleRepo, audit: audit}
}

func (u *filterRuleUsecase) ListRules(ctx context.Context, userID string) ([]*domain.FilterRule, error) {
	rules, err := u.ruleRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.NewPersistence("list filter rules", err)
	}
	if rules == nil {
		rules = []*domain.FilterRule{}
	}
	return rules, nil
}

// ValidateRule checks a rule request and returns the normalized rule.
func ValidateRule(req CreateRuleRequest) (*domain.FilterRule, error) {
	ruleType := domain.RuleType(strings.ToLower(strings.TrimSpace(req.RuleType)))
	if !ruleType.Valid() {
		return nil, apperror.NewValidation("ruleType", "must be one of keyword, participant, relationship, pattern")
	}

	target := convdomain.Classification(strings.ToLower(strings.TrimSpace(req.Classification)))
	if !target.Valid() {
		return nil, apperror.NewValidation("classification", "must be one of professional, personal, unclassified")
	}

	value := domain.NormalizeValue(ruleType, req.RuleValue)
	if value == "" {
		return nil, apperror.NewValidation("ruleValue", "must not be empty")
	}
	if ruleType == domain.RuleTypePattern {
		if _, err := domain.CompilePattern(value); err != nil {
			return nil, apperror.NewValidation("ruleValue", err.Error())
		}
	}

	return &domain.FilterRule{
		RuleType:       ruleType,
		RuleValue:      value,
		Classification: target,
		IsActive:       true,
	}, nil
}

func (u *filterRuleUsecase) CreateRule(ctx context.Context, userID string, req CreateRuleRequest) (*domain.FilterRule, error) {
	rule, err := ValidateRule(req)
	if err != nil {
		return nil, err
	}
	rule.UserID = userID

	if err := u.ruleRepo.Create(ctx, rule); err != nil {
		return nil, apperror.NewPersistence("create filter rule", err)
	}

	target := string(rule.Classification)
	return rule, u.audit.Append(ctx, &auditdomain.AuditEntry{
		UserID:            userID,
		RuleID:            &rule.ID,
		Action:            auditdomain.ActionRuleCreated,
		NewClassification: &target,
		Method:            string(convdomain.MethodManual),
		Metadata:          auditdomain.MetadataOf(rule.Snapshot()),
	})
}

func (u *filterRuleUsecase) DeleteRule(ctx context.Context, userID, ruleID string) (*domain.FilterRule, error) {
	rule, err := u.findOwned(ctx, userID, ruleID)
	if err != nil {
		return nil, err
	}

	deleted, err := u.ruleRepo.Delete(ctx, userID, ruleID)
	if err != nil {
		return nil, apperror.NewPersistence("delete filter rule", err)
	}
	if !deleted {
		// removed concurrently
		return nil, apperror.NewNotFound("filter rule", ruleID)
	}

	target := string(rule.Classification)
	return rule, u.audit.Append(ctx, &auditdomain.AuditEntry{
		UserID:                 userID,
		RuleID:                 &rule.ID,
		Action:                 auditdomain.ActionRuleDeleted,
		PreviousClassification: &target,
		Method:                 string(convdomain.MethodManual),
		Metadata:               auditdomain.MetadataOf(rule.Snapshot()),
	})
}

func (u *filterRuleUsecase) SetRuleActive(ctx context.Context, userID, ruleID string, active bool) (*domain.FilterRule, error) {
	rule, err := u.findOwned(ctx, userID, ruleID)
	if err != nil {
		return nil, err
	}

	wasActive := rule.IsActive
	if wasActive != active {
		updated, err := u.ruleRepo.SetActive(ctx, userID, ruleID, wasActive, active)
		if err != nil {
			return nil, apperror.NewPersistence("toggle filter rule", err)
		}
		if !updated {
			return nil, apperror.NewInvalidTransition("filter rule", ruleID, boolState(wasActive), boolState(active), "rule changed concurrently")
		}
		rule.IsActive = active
	}

	snapshot := rule.Snapshot()
	snapshot["wasActive"] = wasActive
	return rule, u.audit.Append(ctx, &auditdomain.AuditEntry{
		UserID:   userID,
		RuleID:   &rule.ID,
		Action:   auditdomain.ActionRuleToggled,
		Method:   string(convdomain.MethodManual),
		Metadata: auditdomain.MetadataOf(snapshot),
	})
}

func (u *filterRuleUsecase) findOwned(ctx context.Context, userID, ruleID string) (*domain.FilterRule, error) {
	if strings.TrimSpace(ruleID) == "" {
		return nil, apperror.NewValidation("ruleId", "is required")
	}
	rule, err := u.ruleRepo.FindByID(ctx, userID, ruleID)
	if err != nil {
		return nil, apperror.NewPersistence("load filter rule", err)
	}
	if rule == nil {
		return nil, apperror.NewNotFound("filter rule", ruleID)
	}
	return rule, nil
}

func boolState(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}
