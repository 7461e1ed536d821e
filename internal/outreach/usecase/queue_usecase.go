package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	auditdomain "governance-backend/internal/audit/domain"
	auditusecase "governance-backend/internal/audit/usecase"
	leadrepo "governance-backend/internal/lead/repository"
	"governance-backend/internal/outreach/dispatch"
	"governance-backend/internal/outreach/domain"
	"governance-backend/internal/outreach/repository"
	"governance-backend/internal/policy"
	"governance-backend/pkg/apperror"
)

// QueueUsecase drives reviewed outreach items through their state machine
type QueueUsecase interface {
	// Approve moves a pending item to approved. With live integrations on,
	// the item is handed to delivery right away.
	Approve(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error)
	Reject(ctx context.Context, userID, id, reason string) (*domain.QueuedOutreachItem, error)
	Cancel(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error)

	// MarkSent records a successful delivery of an approved item
	MarkSent(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error)
	// RecordSendError keeps the item approved and stores the failure for retry
	RecordSendError(ctx context.Context, userID, id string, sendErr error) (*domain.QueuedOutreachItem, error)
	// Retry re-attempts delivery of an approved item
	Retry(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error)

	List(ctx context.Context, userID string, status domain.Status, limit, offset int) ([]*domain.QueuedOutreachItem, int64, error)
	CountPending(ctx context.Context, userID string) (int64, error)
}

type queueUsecase struct {
	features  policy.FeatureSet
	queueRepo repository.OutreachQueueRepository
	leads     leadrepo.LeadProvider
	audit     auditusecase.Recorder
	adapter   dispatch.Adapter
}

// NewQueueUsecase creates a new instance of queueUsecase. adapter may be nil.
func NewQueueUsecase(
	features policy.FeatureSet,
	queueRepo repository.OutreachQueueRepository,
	leads leadrepo.LeadProvider,
	audit auditusecase.Recorder,
	adapter dispatch.Adapter,
) QueueUsecase {
	return &queueUsecase{
		features:  features,
		queueRepo: queueRepo,
		leads:     leads,
		audit:     audit,
		adapter:   adapter,
	}
}

func (u *queueUsecase) Approve(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error) {
	now := time.Now().UTC()
	item, auditErr := u.transition(ctx, userID, id, domain.StatusApproved, auditdomain.ActionOutreachApproved, "", repository.Changes{
		ReviewedAt: &now,
		ReviewedBy: &userID,
	})
	if item == nil {
		return nil, auditErr
	}
	if !u.canDeliver() {
		return item, auditErr
	}

	delivered, err := u.deliver(ctx, userID, item)
	if err != nil && !apperror.IsPartialAudit(err) {
		// the approval stands; delivery can be retried
		log.Printf("[Queue] Post-approval delivery bookkeeping for %s failed: %v", id, err)
		return item, auditErr
	}
	if auditErr == nil {
		auditErr = err
	}
	return delivered, auditErr
}

func (u *queueUsecase) Reject(ctx context.Context, userID, id, reason string) (*domain.QueuedOutreachItem, error) {
	now := time.Now().UTC()
	changes := repository.Changes{ReviewedAt: &now, ReviewedBy: &userID}
	if reason = strings.TrimSpace(reason); reason != "" {
		changes.ReviewNote = &reason
	}
	return u.transition(ctx, userID, id, domain.StatusRejected, auditdomain.ActionOutreachRejected, reason, changes)
}

func (u *queueUsecase) Cancel(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error) {
	return u.transition(ctx, userID, id, domain.StatusCancelled, auditdomain.ActionOutreachCancelled, "", repository.Changes{})
}

func (u *queueUsecase) MarkSent(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error) {
	now := time.Now().UTC()
	return u.transition(ctx, userID, id, domain.StatusSent, auditdomain.ActionOutreachSent, "", repository.Changes{
		SentAt:         &now,
		ClearSendError: true,
	})
}

func (u *queueUsecase) RecordSendError(ctx context.Context, userID, id string, sendErr error) (*domain.QueuedOutreachItem, error) {
	item, err := u.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.StatusApproved {
		return nil, apperror.NewInvalidTransition("outreach item", id, string(item.Status), string(domain.StatusApproved), "send errors are only recorded on approved items")
	}

	msg := "delivery failed"
	if sendErr != nil {
		msg = sendErr.Error()
	}
	changes := repository.Changes{SendError: &msg}
	ok, err := u.queueRepo.Transition(ctx, userID, id, domain.StatusApproved, domain.StatusApproved, changes)
	if err != nil {
		return nil, apperror.NewPersistence("record send error", err)
	}
	if !ok {
		return nil, apperror.NewInvalidTransition("outreach item", id, string(domain.StatusApproved), string(domain.StatusApproved), "item changed concurrently")
	}
	changes.Apply(item)

	return item, u.audit.Append(ctx, &auditdomain.AuditEntry{
		UserID:      userID,
		QueueItemID: &item.ID,
		Action:      auditdomain.ActionOutreachSendFailed,
		Method:      "delivery",
		Reason:      &msg,
		Metadata: auditdomain.MetadataOf(map[string]any{
			"previousStatus": domain.StatusApproved,
			"newStatus":      domain.StatusApproved,
		}),
	})
}

func (u *queueUsecase) Retry(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error) {
	if !u.canDeliver() {
		return nil, apperror.NewInvalidTransition("outreach item", id, string(domain.StatusApproved), string(domain.StatusSent), "live integrations are off; the launch switch is OFF or no delivery backend is configured")
	}
	item, err := u.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if item.Status != domain.StatusApproved {
		return nil, apperror.NewInvalidTransition("outreach item", id, string(item.Status), string(domain.StatusSent), "only approved items can be retried")
	}
	return u.deliver(ctx, userID, item)
}

func (u *queueUsecase) List(ctx context.Context, userID string, status domain.Status, limit, offset int) ([]*domain.QueuedOutreachItem, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperror.NewValidation("status", "unknown queue status")
	}
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := u.queueRepo.List(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, 0, apperror.NewPersistence("list outreach queue", err)
	}
	if items == nil {
		items = []*domain.QueuedOutreachItem{}
	}
	u.attachLeads(ctx, userID, items)
	return items, total, nil
}

func (u *queueUsecase) CountPending(ctx context.Context, userID string) (int64, error) {
	count, err := u.queueRepo.CountByStatus(ctx, userID, domain.StatusPendingApproval)
	if err != nil {
		return 0, apperror.NewPersistence("count pending outreach", err)
	}
	return count, nil
}

// transition applies one legal edge with a conditional update and audits it.
// A nil item means the transition did not happen.
func (u *queueUsecase) transition(ctx context.Context, userID, id string, to domain.Status, action auditdomain.Action, reason string, changes repository.Changes) (*domain.QueuedOutreachItem, error) {
	item, err := u.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	from := item.Status
	if !domain.CanTransition(from, to) {
		return nil, apperror.NewInvalidTransition("outreach item", id, string(from), string(to), "")
	}

	ok, err := u.queueRepo.Transition(ctx, userID, id, from, to, changes)
	if err != nil {
		return nil, apperror.NewPersistence("transition outreach item", err)
	}
	if !ok {
		return nil, apperror.NewInvalidTransition("outreach item", id, string(from), string(to), "item changed concurrently")
	}
	item.Status = to
	changes.Apply(item)

	method := "manual"
	if to == domain.StatusSent {
		method = "delivery"
	}
	return item, u.audit.Append(ctx, &auditdomain.AuditEntry{
		UserID:      userID,
		QueueItemID: &item.ID,
		Action:      action,
		Method:      method,
		Reason:      auditdomain.StrPtr(reason),
		Metadata: auditdomain.MetadataOf(map[string]any{
			"previousStatus": from,
			"newStatus":      to,
		}),
	})
}

// deliver hands an approved item to the adapter and records the outcome.
func (u *queueUsecase) deliver(ctx context.Context, userID string, item *domain.QueuedOutreachItem) (*domain.QueuedOutreachItem, error) {
	if err := u.adapter.Deliver(ctx, item); err != nil {
		log.Printf("[Queue] Delivery of %s failed: %v", item.ID, err)
		return u.RecordSendError(ctx, userID, item.ID, err)
	}
	return u.MarkSent(ctx, userID, item.ID)
}

func (u *queueUsecase) canDeliver() bool {
	return u.features.LiveIntegrations && u.adapter != nil
}

func (u *queueUsecase) findOwned(ctx context.Context, userID, id string) (*domain.QueuedOutreachItem, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.NewValidation("queueId", "is required")
	}
	item, err := u.queueRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, apperror.NewPersistence("load outreach item", err)
	}
	if item == nil {
		return nil, apperror.NewNotFound("outreach item", id)
	}
	return item, nil
}

func (u *queueUsecase) attachLeads(ctx context.Context, userID string, items []*domain.QueuedOutreachItem) {
	if u.leads == nil || len(items) == 0 {
		return
	}
	seen := make(map[string]bool)
	var ids []string
	for _, it := range items {
		if !seen[it.LeadID] {
			seen[it.LeadID] = true
			ids = append(ids, it.LeadID)
		}
	}

	leads, err := u.leads.FindByIDs(ctx, userID, ids)
	if err != nil {
		log.Printf("[Queue] Lead lookup failed for user %s: %v", userID, err)
		return
	}
	for _, it := range items {
		if l, ok := leads[it.LeadID]; ok {
			summary := l.Summary()
			it.Lead = &summary
		}
	}
}
