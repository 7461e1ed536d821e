package usecase

import (
	"context"
	"log"
	"strings"

	auditdomain "governance-backend/internal/audit/domain"
	auditusecase "governance-backend/internal/audit/usecase"
	"governance-backend/internal/conversation/classifier"
	"governance-backend/internal/conversation/domain"
	"governance-backend/internal/conversation/repository"
	frrepo "governance-backend/internal/filterrule/repository"
	leadrepo "governance-backend/internal/lead/repository"
	"governance-backend/pkg/apperror"
)

// ConversationUsecase defines the interface for conversation business logic
type ConversationUsecase interface {
	// Import stores a thread and auto-classifies it. A thread imported
	// before is returned unchanged with Created false.
	Import(ctx context.Context, userID string, input ImportInput) (*ImportResult, error)

	List(ctx context.Context, userID string, filter repository.ListFilter) ([]*domain.Conversation, int64, error)

	// Reclassify applies a manual classification
	Reclassify(ctx context.Context, userID, conversationID string, classification domain.Classification, reason string) (*domain.Conversation, error)

	// ToggleExclusion sets the exclusion flag. Repeating the current state
	// is allowed and still audited.
	ToggleExclusion(ctx context.Context, userID, conversationID string, exclude bool) (*domain.Conversation, error)
}

// ImportInput is a thread handed in by the LinkedIn sync
type ImportInput struct {
	ExternalThreadID   string `json:"linkedinThreadId"`
	ParticipantName    string `json:"participantName"`
	ParticipantRef     string `json:"participantRef"`
	Relationship       string `json:"relationship"`
	LastMessagePreview string `json:"lastMessagePreview"`
}

// ImportResult is the stored conversation plus how it was classified
type ImportResult struct {
	Conversation   *domain.Conversation `json:"conversation"`
	Classification classifier.Result    `json:"classification"`
	Created        bool                 `json:"created"`
}

type conversationUsecase struct {
	convRepo  repository.ConversationRepository
	ruleRepo  frrepo.FilterRuleRepository
	leads     leadrepo.LeadProvider
	audit     auditusecase.Recorder
	classOpts classifier.Options
}

// NewConversationUsecase creates a new instance of conversationUsecase
func NewConversationUsecase(
	convRepo repository.ConversationRepository,
	ruleRepo frrepo.FilterRuleRepository,
	leads leadrepo.LeadProvider,
	audit auditusecase.Recorder,
	classOpts classifier.Options,
) ConversationUsecase {
	return &conversationUsecase{
		convRepo:  convRepo,
		ruleRepo:  ruleRepo,
		leads:     leads,
		audit:     audit,
		classOpts: classOpts,
	}
}

func (u *conversationUsecase) Import(ctx context.Context, userID string, input ImportInput) (*ImportResult, error) {
	input.ExternalThreadID = strings.TrimSpace(input.ExternalThreadID)
	input.ParticipantName = strings.TrimSpace(input.ParticipantName)
	if input.ExternalThreadID == "" {
		return nil, apperror.NewValidation("linkedinThreadId", "is required")
	}
	if input.ParticipantName == "" {
		return nil, apperror.NewValidation("participantName", "is required")
	}

	existing, err := u.convRepo.FindByThread(ctx, userID, input.ExternalThreadID)
	if err != nil {
		return nil, apperror.NewPersistence("load conversation", err)
	}
	if existing != nil {
		return &ImportResult{Conversation: existing, Classification: storedResult(existing), Created: false}, nil
	}

	rules, err := u.ruleRepo.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.NewPersistence("load filter rules", err)
	}
	leads, err := u.leads.ListByUserID(ctx, userID)
	if err != nil {
		// leads are a signal, not a precondition
		log.Printf("[Conversation] Lead lookup failed for user %s, classifying without leads: %v", userID, err)
		leads = nil
	}

	conv := &domain.Conversation{
		UserID:             userID,
		ExternalThreadID:   input.ExternalThreadID,
		ParticipantName:    input.ParticipantName,
		ParticipantRef:     strings.TrimSpace(input.ParticipantRef),
		Relationship:       strings.TrimSpace(input.Relationship),
		LastMessagePreview: input.LastMessagePreview,
	}
	result := classifier.Classify(conv, rules, leads, u.classOpts)
	conv.Classification = result.Classification
	conv.ClassificationMethod = result.Method
	conv.ClassificationReason = result.Reason()
	conv.ClassificationConfidence = result.Confidence

	created, err := u.convRepo.CreateIfAbsent(ctx, conv)
	if err != nil {
		return nil, apperror.NewPersistence("create conversation", err)
	}
	if !created {
		// a concurrent import of the same thread won
		stored, err := u.convRepo.FindByThread(ctx, userID, input.ExternalThreadID)
		if err != nil {
			return nil, apperror.NewPersistence("load conversation", err)
		}
		if stored == nil {
			return nil, apperror.NewNotFound("conversation thread", input.ExternalThreadID)
		}
		return &ImportResult{Conversation: stored, Classification: storedResult(stored), Created: false}, nil
	}

	newClass := string(conv.Classification)
	entry := &auditdomain.AuditEntry{
		UserID:            userID,
		ConversationID:    &conv.ID,
		RuleID:            auditdomain.StrPtr(result.RuleID),
		Action:            auditdomain.ActionClassified,
		NewClassification: &newClass,
		Method:            string(result.Method),
		Reason:            auditdomain.StrPtr(conv.ClassificationReason),
		Metadata: auditdomain.MetadataOf(map[string]any{
			"confidence":  result.Confidence,
			"needsReview": result.NeedsReview,
		}),
	}
	return &ImportResult{Conversation: conv, Classification: result, Created: true}, u.audit.Append(ctx, entry)
}

func (u *conversationUsecase) List(ctx context.Context, userID string, filter repository.ListFilter) ([]*domain.Conversation, int64, error) {
	if filter.Classification != "" && !filter.Classification.Valid() {
		return nil, 0, apperror.NewValidation("classification", "must be one of professional, personal, unclassified")
	}
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	convs, total, err := u.convRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, 0, apperror.NewPersistence("list conversations", err)
	}
	if convs == nil {
		convs = []*domain.Conversation{}
	}
	return convs, total, nil
}

func (u *conversationUsecase) Reclassify(ctx context.Context, userID, conversationID string, classification domain.Classification, reason string) (*domain.Conversation, error) {
	if !classification.Valid() {
		return nil, apperror.NewValidation("classification", "must be one of professional, personal, unclassified")
	}
	conv, err := u.findOwned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	previous := conv.Classification
	update := repository.ClassificationUpdate{
		Classification: classification,
		Method:         domain.MethodManual,
		Reason:         reason,
		Confidence:     1,
	}
	updated, err := u.convRepo.UpdateClassification(ctx, userID, conversationID, previous, update)
	if err != nil {
		return nil, apperror.NewPersistence("reclassify conversation", err)
	}
	if !updated {
		return nil, apperror.NewInvalidTransition("conversation", conversationID, string(previous), string(classification), "classification changed concurrently")
	}

	conv.Classification = update.Classification
	conv.ClassificationMethod = update.Method
	conv.ClassificationReason = update.Reason
	conv.ClassificationConfidence = update.Confidence

	prev, next := string(previous), string(classification)
	return conv, u.audit.Append(ctx, &auditdomain.AuditEntry{
		UserID:                 userID,
		ConversationID:         &conv.ID,
		Action:                 auditdomain.ActionReclassified,
		PreviousClassification: &prev,
		NewClassification:      &next,
		Method:                 string(domain.MethodManual),
		Reason:                 auditdomain.StrPtr(reason),
	})
}

func (u *conversationUsecase) ToggleExclusion(ctx context.Context, userID, conversationID string, exclude bool) (*domain.Conversation, error) {
	conv, err := u.findOwned(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	wasExcluded := conv.IsExcluded
	found, err := u.convRepo.SetExcluded(ctx, userID, conversationID, exclude)
	if err != nil {
		return nil, apperror.NewPersistence("toggle exclusion", err)
	}
	if !found {
		return nil, apperror.NewNotFound("conversation", conversationID)
	}
	conv.IsExcluded = exclude

	action := auditdomain.ActionIncluded
	if exclude {
		action = auditdomain.ActionExcluded
	}
	current := string(conv.Classification)
	return conv, u.audit.Append(ctx, &auditdomain.AuditEntry{
		UserID:                 userID,
		ConversationID:         &conv.ID,
		Action:                 action,
		PreviousClassification: &current,
		NewClassification:      &current,
		Method:                 string(domain.MethodManual),
		Metadata: auditdomain.MetadataOf(map[string]any{
			"wasExcluded": wasExcluded,
			"isExcluded":  exclude,
		}),
	})
}

func (u *conversationUsecase) findOwned(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, apperror.NewValidation("conversationId", "is required")
	}
	conv, err := u.convRepo.FindByID(ctx, userID, conversationID)
	if err != nil {
		return nil, apperror.NewPersistence("load conversation", err)
	}
	if conv == nil {
		return nil, apperror.NewNotFound("conversation", conversationID)
	}
	return conv, nil
}

func storedResult(conv *domain.Conversation) classifier.Result {
	var reasons []string
	if conv.ClassificationReason != "" {
		reasons = []string{conv.ClassificationReason}
	}
	return classifier.Result{
		Classification: conv.Classification,
		Method:         conv.ClassificationMethod,
		Confidence:     conv.ClassificationConfidence,
		Reasons:        reasons,
	}
}
