package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"governance-backend/internal/notify/domain"
	outreachdomain "governance-backend/internal/outreach/domain"
	"governance-backend/pkg/apperror"
	"governance-backend/pkg/fcm"
)

type memoryTokens struct {
	mu      sync.Mutex
	tokens  map[string]domain.DeviceToken
	deleted []string
}

func newMemoryTokens() *memoryTokens {
	return &memoryTokens{tokens: map[string]domain.DeviceToken{}}
}

func (m *memoryTokens) Save(_ context.Context, userID, token, info string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = domain.DeviceToken{UserID: userID, Token: token, DeviceInfo: info}
	return nil
}

func (m *memoryTokens) FindByUserID(_ context.Context, userID string) ([]domain.DeviceToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.DeviceToken
	for _, t := range m.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memoryTokens) Delete(_ context.Context, userID, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(m.tokens, token)
	return true, nil
}

func (m *memoryTokens) DeleteTokens(_ context.Context, tokens []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tokens {
		delete(m.tokens, t)
		m.deleted = append(m.deleted, t)
	}
	return nil
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []fcm.Notification
	reject map[string]bool
	err    error
}

func (s *fakeSender) SendToDevices(_ context.Context, tokens []string, n fcm.Notification) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, n)
	var failed []string
	for _, t := range tokens {
		if s.reject[t] {
			failed = append(failed, t)
		}
	}
	return failed, nil
}

func TestNotifierPushesAndCleansUpTokens(t *testing.T) {
	tokens := newMemoryTokens()
	_ = tokens.Save(context.Background(), "user-1", "good", "chrome")
	_ = tokens.Save(context.Background(), "user-1", "stale", "firefox")
	sender := &fakeSender{reject: map[string]bool{"stale": true}}

	n := NewReviewerNotifier(tokens, sender)
	n.NotifyPendingReview(context.Background(), &outreachdomain.QueuedOutreachItem{
		ID: "q-1", UserID: "user-1", Channel: outreachdomain.ChannelEmail, Subject: "Intro",
	})
	n.Wait()

	if len(sender.sent) != 1 {
		t.Fatalf("expected one push, got %d", len(sender.sent))
	}
	if sender.sent[0].Data["queueId"] != "q-1" {
		t.Errorf("push must reference the queue item: %v", sender.sent[0].Data)
	}
	if len(tokens.deleted) != 1 || tokens.deleted[0] != "stale" {
		t.Errorf("expected stale token removed, got %v", tokens.deleted)
	}
}

func TestNotifierSwallowsFailures(t *testing.T) {
	tokens := newMemoryTokens()
	_ = tokens.Save(context.Background(), "user-1", "tok", "")
	n := NewReviewerNotifier(tokens, &fakeSender{err: errors.New("fcm down")})

	n.NotifyPendingReview(context.Background(), &outreachdomain.QueuedOutreachItem{ID: "q-1", UserID: "user-1"})
	n.Wait()

	if len(tokens.deleted) != 0 {
		t.Errorf("tokens must not be removed when the send itself failed")
	}
}

func TestDeviceRegistration(t *testing.T) {
	tokens := newMemoryTokens()
	uc := NewDeviceUsecase(tokens)
	ctx := context.Background()

	var ve *apperror.ValidationError
	if err := uc.Register(ctx, "user-1", "  ", ""); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := uc.Register(ctx, "user-1", "tok", "ipad"); err != nil {
		t.Fatalf("register: %v", err)
	}

	var nf *apperror.NotFoundError
	if err := uc.Unregister(ctx, "user-2", "tok"); !errors.As(err, &nf) {
		t.Fatalf("another user must not remove the token, got %v", err)
	}
	if err := uc.Unregister(ctx, "user-1", "tok"); err != nil {
		t.Fatalf("unregister: %v", err)
	}
}
