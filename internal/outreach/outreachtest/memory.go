// Package outreachtest provides in-memory doubles for the outreach queue.
package outreachtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"governance-backend/internal/outreach/domain"
	"governance-backend/internal/outreach/repository"
)

// ErrStoreDown is returned while Fail is set.
var ErrStoreDown = errors.New("queue store unavailable")

// MemoryRepository is an in-memory OutreachQueueRepository. IDs are
// q-1, q-2, ... in creation order.
type MemoryRepository struct {
	mu    sync.Mutex
	items []*domain.QueuedOutreachItem
	seq   int
	fail  bool

	// BeforeTransition runs inside Transition before the compare, to
	// simulate a concurrent writer.
	BeforeTransition func(item *domain.QueuedOutreachItem)
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Fail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *MemoryRepository) Create(_ context.Context, item *domain.QueuedOutreachItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ErrStoreDown
	}
	m.seq++
	if item.ID == "" {
		item.ID = fmt.Sprintf("q-%d", m.seq)
	}
	ts := time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
	item.CreatedAt, item.UpdatedAt = ts, ts
	cp := *item
	m.items = append(m.items, &cp)
	return nil
}

func (m *MemoryRepository) FindByID(_ context.Context, userID, id string) (*domain.QueuedOutreachItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, ErrStoreDown
	}
	for _, it := range m.items {
		if it.ID == id && it.UserID == userID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) List(_ context.Context, userID string, status domain.Status, limit, offset int) ([]*domain.QueuedOutreachItem, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, 0, ErrStoreDown
	}
	var matched []*domain.QueuedOutreachItem
	// newest first
	for i := len(m.items) - 1; i >= 0; i-- {
		it := m.items[i]
		if it.UserID != userID || (status != "" && it.Status != status) {
			continue
		}
		cp := *it
		matched = append(matched, &cp)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return []*domain.QueuedOutreachItem{}, total, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (m *MemoryRepository) CountByStatus(ctx context.Context, userID string, status domain.Status) (int64, error) {
	_, total, err := m.List(ctx, userID, status, 0, 0)
	return total, err
}

func (m *MemoryRepository) Transition(_ context.Context, userID, id string, from, to domain.Status, changes repository.Changes) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, ErrStoreDown
	}
	for _, it := range m.items {
		if it.ID != id || it.UserID != userID {
			continue
		}
		if m.BeforeTransition != nil {
			m.BeforeTransition(it)
		}
		if it.Status != from {
			return false, nil
		}
		it.Status = to
		changes.Apply(it)
		return true, nil
	}
	return false, nil
}

// Items returns a copy of every stored item in creation order.
func (m *MemoryRepository) Items() []domain.QueuedOutreachItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.QueuedOutreachItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, *it)
	}
	return out
}

// Adapter is a delivery adapter that records deliveries and fails on demand.
type Adapter struct {
	mu        sync.Mutex
	Err       error
	Delivered []string
}

func (a *Adapter) Deliver(_ context.Context, item *domain.QueuedOutreachItem) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.Delivered = append(a.Delivered, item.ID)
	return nil
}

// Notifier records pending-review notifications.
type Notifier struct {
	mu      sync.Mutex
	Notices []string
}

func (n *Notifier) NotifyPendingReview(_ context.Context, item *domain.QueuedOutreachItem) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notices = append(n.Notices, item.ID)
}

func (n *Notifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Notices)
}
