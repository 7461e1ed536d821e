// Package audittest provides an in-memory audit repository for tests.
package audittest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"governance-backend/internal/audit/domain"
)

// ErrStoreDown is returned while Fail is set.
var ErrStoreDown = errors.New("audit store unavailable")

// MemoryRepository is an in-memory AuditRepository.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
	fail    bool
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Fail makes every subsequent Create return ErrStoreDown until reset.
func (m *MemoryRepository) Fail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *MemoryRepository) Create(_ context.Context, entry *domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return ErrStoreDown
	}
	for _, e := range m.entries {
		if e.ID == entry.ID {
			return nil
		}
	}
	cp := *entry
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MemoryRepository) FindByUserID(_ context.Context, userID, conversationID string, limit, offset int) ([]*domain.AuditEntry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*domain.AuditEntry
	for _, e := range m.entries {
		if e.UserID != userID {
			continue
		}
		if conversationID != "" && (e.ConversationID == nil || *e.ConversationID != conversationID) {
			continue
		}
		matched = append(matched, e)
	}
	// newest first; insertion order breaks ties
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*domain.AuditEntry{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// Entries returns a copy of everything recorded, in insertion order.
func (m *MemoryRepository) Entries() []domain.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, *e)
	}
	return out
}

// Count returns how many entries were recorded with action.
func (m *MemoryRepository) Count(action domain.Action) int {
	n := 0
	for _, e := range m.Entries() {
		if e.Action == action {
			n++
		}
	}
	return n
}
