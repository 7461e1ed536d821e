package usecase

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"governance-backend/internal/notify/repository"
	outreachdomain "governance-backend/internal/outreach/domain"
	"governance-backend/pkg/fcm"
)

// Sender pushes one notification to many devices and returns failed tokens
type Sender interface {
	SendToDevices(ctx context.Context, tokens []string, n fcm.Notification) ([]string, error)
}

// ReviewerNotifier pushes "awaiting review" notices to the owner's devices.
// Delivery is best-effort: failures are logged and never reach the caller.
type ReviewerNotifier struct {
	tokens  repository.DeviceTokenRepository
	sender  Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewReviewerNotifier creates a ReviewerNotifier
func NewReviewerNotifier(tokens repository.DeviceTokenRepository, sender Sender) *ReviewerNotifier {
	return &ReviewerNotifier{tokens: tokens, sender: sender, timeout: 10 * time.Second}
}

// NotifyPendingReview returns immediately; the push happens in the background.
func (n *ReviewerNotifier) NotifyPendingReview(_ context.Context, item *outreachdomain.QueuedOutreachItem) {
	snapshot := *item
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		n.push(ctx, &snapshot)
	}()
}

// Wait blocks until in-flight notifications finish
func (n *ReviewerNotifier) Wait() {
	n.wg.Wait()
}

func (n *ReviewerNotifier) push(ctx context.Context, item *outreachdomain.QueuedOutreachItem) {
	tokens, err := n.tokens.FindByUserID(ctx, item.UserID)
	if err != nil {
		log.Printf("[FCM] Error getting device tokens for user %s: %v", item.UserID, err)
		return
	}
	if len(tokens) == 0 {
		log.Printf("[FCM] No devices registered for user %s, skipping push", item.UserID)
		return
	}

	values := make([]string, 0, len(tokens))
	for _, t := range tokens {
		values = append(values, t.Token)
	}

	title := "Outreach awaiting approval"
	body := fmt.Sprintf("A %s message is waiting for your review", item.Channel)
	if item.Subject != "" {
		body = fmt.Sprintf("%s: %s", body, truncate(item.Subject, 100))
	}

	failed, err := n.sender.SendToDevices(ctx, values, fcm.Notification{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":    "outreach_pending",
			"queueId": item.ID,
			"channel": string(item.Channel),
		},
		Link: "/outreach/queue/" + item.ID,
	})
	if err != nil {
		log.Printf("[FCM] Error sending notifications: %v", err)
		return
	}

	if len(failed) > 0 {
		log.Printf("[FCM] Cleaning up %d failed tokens", len(failed))
		if err := n.tokens.DeleteTokens(ctx, failed); err != nil {
			log.Printf("[FCM] Failed to clean up tokens: %v", err)
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
