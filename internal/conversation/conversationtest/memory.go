// Package conversationtest provides an in-memory conversation repository for tests.
package conversationtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"governance-backend/internal/conversation/domain"
	"governance-backend/internal/conversation/repository"
)

// ErrStoreDown is returned while Fail is set.
var ErrStoreDown = errors.New("conversation store unavailable")

// MemoryRepository is an in-memory ConversationRepository.
type MemoryRepository struct {
	mu    sync.Mutex
	convs []*domain.Conversation
	seq   int
	fail  bool

	// BeforeUpdate runs inside UpdateClassification before the compare, to
	// simulate a concurrent writer.
	BeforeUpdate func(conv *domain.Conversation)
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Fail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func (m *MemoryRepository) CreateIfAbsent(_ context.Context, conv *domain.Conversation) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, ErrStoreDown
	}
	for _, c := range m.convs {
		if c.UserID == conv.UserID && c.ExternalThreadID == conv.ExternalThreadID {
			return false, nil
		}
	}
	m.seq++
	if conv.ID == "" {
		conv.ID = fmt.Sprintf("conv-%d", m.seq)
	}
	cp := *conv
	m.convs = append(m.convs, &cp)
	return true, nil
}

func (m *MemoryRepository) FindByID(_ context.Context, userID, id string) (*domain.Conversation, error) {
	return m.find(func(c *domain.Conversation) bool { return c.ID == id && c.UserID == userID })
}

func (m *MemoryRepository) FindByThread(_ context.Context, userID, externalThreadID string) (*domain.Conversation, error) {
	return m.find(func(c *domain.Conversation) bool {
		return c.UserID == userID && c.ExternalThreadID == externalThreadID
	})
}

func (m *MemoryRepository) find(match func(*domain.Conversation) bool) (*domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, ErrStoreDown
	}
	for _, c := range m.convs {
		if match(c) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) List(_ context.Context, userID string, filter repository.ListFilter) ([]*domain.Conversation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, 0, ErrStoreDown
	}
	var matched []*domain.Conversation
	for _, c := range m.convs {
		if c.UserID != userID {
			continue
		}
		if filter.Classification != "" && c.Classification != filter.Classification {
			continue
		}
		if filter.Excluded != nil && c.IsExcluded != *filter.Excluded {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []*domain.Conversation{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

func (m *MemoryRepository) UpdateClassification(_ context.Context, userID, id string, from domain.Classification, update repository.ClassificationUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, ErrStoreDown
	}
	for _, c := range m.convs {
		if c.ID != id || c.UserID != userID {
			continue
		}
		if m.BeforeUpdate != nil {
			m.BeforeUpdate(c)
		}
		if c.Classification != from {
			return false, nil
		}
		c.Classification = update.Classification
		c.ClassificationMethod = update.Method
		c.ClassificationReason = update.Reason
		c.ClassificationConfidence = update.Confidence
		return true, nil
	}
	return false, nil
}

func (m *MemoryRepository) SetExcluded(_ context.Context, userID, id string, excluded bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false, ErrStoreDown
	}
	for _, c := range m.convs {
		if c.ID == id && c.UserID == userID {
			c.IsExcluded = excluded
			return true, nil
		}
	}
	return false, nil
}
