// Package leadtest provides a static lead provider for tests.
package leadtest

import (
	"context"
	"errors"

	"governance-backend/internal/lead/domain"
)

// ErrUnavailable is returned while Fail is set.
var ErrUnavailable = errors.New("lead provider unavailable")

// StaticProvider serves a fixed set of leads.
type StaticProvider struct {
	Leads []*domain.Lead
	Fail  bool
}

func NewStaticProvider(leads ...*domain.Lead) *StaticProvider {
	return &StaticProvider{Leads: leads}
}

func (p *StaticProvider) ListByUserID(_ context.Context, userID string) ([]*domain.Lead, error) {
	if p.Fail {
		return nil, ErrUnavailable
	}
	var out []*domain.Lead
	for _, l := range p.Leads {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (p *StaticProvider) FindByIDs(_ context.Context, userID string, ids []string) (map[string]*domain.Lead, error) {
	if p.Fail {
		return nil, ErrUnavailable
	}
	out := map[string]*domain.Lead{}
	for _, l := range p.Leads {
		if l.UserID != userID {
			continue
		}
		for _, id := range ids {
			if l.ID == id {
				out[id] = l
			}
		}
	}
	return out, nil
}
