package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	auditdomain "governance-backend/internal/audit/domain"
	auditusecase "governance-backend/internal/audit/usecase"
	"governance-backend/internal/outreach/dispatch"
	"governance-backend/internal/outreach/domain"
	"governance-backend/internal/outreach/repository"
	"governance-backend/internal/policy"
	"governance-backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	msgSimulated       = "Sandbox mode: outreach simulated, nothing was sent"
	msgPendingApproval = "Queued and awaiting human approval"
	msgPendingLaunch   = "Queued for approval; the launch switch is OFF, so nothing will be sent until launch"
	msgSent            = "Outreach handed to delivery"
)

// ErrNoDeliveryAdapter is returned when a direct send has nowhere to go.
var ErrNoDeliveryAdapter = errors.New("no delivery adapter configured")

// ReviewerNotifier tells reviewers that an item awaits them. Implementations
// are best-effort and must not block.
type ReviewerNotifier interface {
	NotifyPendingReview(ctx context.Context, item *domain.QueuedOutreachItem)
}

// GateUsecase decides what happens to an outbound request
type GateUsecase interface {
	Submit(ctx context.Context, userID string, req domain.OutreachRequest) (*domain.QueueResult, error)
}

type gateUsecase struct {
	features  policy.FeatureSet
	queueRepo repository.OutreachQueueRepository
	audit     auditusecase.Recorder
	adapter   dispatch.Adapter
	notifier  ReviewerNotifier
}

// NewGateUsecase creates a new instance of gateUsecase. adapter and notifier
// may be nil.
func NewGateUsecase(
	features policy.FeatureSet,
	queueRepo repository.OutreachQueueRepository,
	audit auditusecase.Recorder,
	adapter dispatch.Adapter,
	notifier ReviewerNotifier,
) GateUsecase {
	return &gateUsecase{
		features:  features,
		queueRepo: queueRepo,
		audit:     audit,
		adapter:   adapter,
		notifier:  notifier,
	}
}

func (g *gateUsecase) Submit(ctx context.Context, userID string, req domain.OutreachRequest) (*domain.QueueResult, error) {
	metadata, err := validateRequest(&req)
	if err != nil {
		return nil, err
	}

	if g.features.IsSandbox() {
		log.Printf("[Gate] Sandbox: simulated %s outreach to lead %s", req.Channel, req.LeadID)
		return &domain.QueueResult{
			Sent:    true,
			Sandbox: true,
			Outcome: domain.OutcomeSimulated,
			Message: msgSimulated,
		}, nil
	}

	if g.features.RequiresApproval || !g.features.MayAutoSend {
		return g.enqueue(ctx, userID, req, metadata)
	}

	item := &domain.QueuedOutreachItem{
		ID:       uuid.New().String(),
		UserID:   userID,
		LeadID:   req.LeadID,
		Channel:  req.Channel,
		Subject:  req.Subject,
		Body:     req.Body,
		Status:   domain.StatusApproved,
		Metadata: metadata,
	}
	if g.adapter == nil {
		return nil, ErrNoDeliveryAdapter
	}
	if err := g.adapter.Deliver(ctx, item); err != nil {
		return nil, fmt.Errorf("deliver outreach: %w", err)
	}
	return &domain.QueueResult{Sent: true, Outcome: domain.OutcomeSent, Message: msgSent}, nil
}

func (g *gateUsecase) enqueue(ctx context.Context, userID string, req domain.OutreachRequest, metadata datatypes.JSON) (*domain.QueueResult, error) {
	item := &domain.QueuedOutreachItem{
		UserID:   userID,
		LeadID:   req.LeadID,
		Channel:  req.Channel,
		Subject:  req.Subject,
		Body:     req.Body,
		Status:   domain.StatusPendingApproval,
		Metadata: metadata,
	}
	if err := g.queueRepo.Create(ctx, item); err != nil {
		return nil, apperror.NewPersistence("queue outreach", err)
	}

	result := &domain.QueueResult{
		Queued:  true,
		QueueID: item.ID,
		Outcome: domain.OutcomeQueuedPendingApproval,
		Message: msgPendingApproval,
	}
	if !g.features.LaunchSwitch {
		result.Outcome = domain.OutcomeQueuedPendingLaunch
		result.Message = msgPendingLaunch
	}

	auditErr := g.audit.Append(ctx, &auditdomain.AuditEntry{
		UserID:      userID,
		QueueItemID: &item.ID,
		Action:      auditdomain.ActionOutreachQueued,
		Method:      "gate",
		Metadata: auditdomain.MetadataOf(map[string]any{
			"newStatus": domain.StatusPendingApproval,
			"outcome":   result.Outcome,
			"leadId":    item.LeadID,
			"channel":   item.Channel,
		}),
	})

	if g.notifier != nil {
		g.notifier.NotifyPendingReview(ctx, item)
	}
	return result, auditErr
}

func validateRequest(req *domain.OutreachRequest) (datatypes.JSON, error) {
	req.LeadID = strings.TrimSpace(req.LeadID)
	req.Channel = domain.Channel(strings.ToLower(strings.TrimSpace(string(req.Channel))))
	req.Subject = strings.TrimSpace(req.Subject)

	if req.LeadID == "" {
		return nil, apperror.NewValidation("leadId", "is required")
	}
	if !req.Channel.Valid() {
		return nil, apperror.NewValidation("channel", "must be one of email, linkedin, call")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, apperror.NewValidation("body", "is required")
	}

	if len(req.Metadata) == 0 {
		return auditdomain.EmptyMetadata, nil
	}
	raw, err := json.Marshal(req.Metadata)
	if err != nil {
		return nil, apperror.NewValidation("metadata", "must be a JSON object")
	}
	return datatypes.JSON(raw), nil
}
