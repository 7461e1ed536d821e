// Package filterruletest provides an in-memory filter rule repository for tests.
package filterruletest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"governance-backend/internal/filterrule/domain"
)

// ErrStoreDown is returned while Fail is set.
var ErrStoreDown = errors.New("rule store unavailable")

// MemoryRepository is an in-memory FilterRuleRepository. Rules keep
// insertion order, which doubles as creation order.
type MemoryRepository struct {
	mu    sync.Mutex
	rules []*domain.FilterRule
	seq   int
	fail  bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Fail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *MemoryRepository) Create(_ context.Context, rule *domain.FilterRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ErrStoreDown
	}
	m.seq++
	if rule.ID == "" {
		rule.ID = fmt.Sprintf("rule-%d", m.seq)
	}
	ts := time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
	rule.CreatedAt, rule.UpdatedAt = ts, ts
	cp := *rule
	m.rules = append(m.rules, &cp)
	return nil
}

func (m *MemoryRepository) FindByID(_ context.Context, userID, ruleID string) (*domain.FilterRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, ErrStoreDown
	}
	for _, r := range m.rules {
		if r.ID == ruleID && r.UserID == userID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) FindByUserID(_ context.Context, userID string) ([]*domain.FilterRule, error) {
	return m.find(userID, false)
}

func (m *MemoryRepository) FindActiveByUserID(_ context.Context, userID string) ([]*domain.FilterRule, error) {
	return m.find(userID, true)
}

func (m *MemoryRepository) find(userID string, activeOnly bool) ([]*domain.FilterRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, ErrStoreDown
	}
	var out []*domain.FilterRule
	for _, r := range m.rules {
		if r.UserID != userID || (activeOnly && !r.IsActive) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepository) Delete(_ context.Context, userID, ruleID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, ErrStoreDown
	}
	for i, r := range m.rules {
		if r.ID == ruleID && r.UserID == userID {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryRepository) SetActive(_ context.Context, userID, ruleID string, from, to bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, ErrStoreDown
	}
	for _, r := range m.rules {
		if r.ID == ruleID && r.UserID == userID && r.IsActive == from {
			r.IsActive = to
			return true, nil
		}
	}
	return false, nil
}
