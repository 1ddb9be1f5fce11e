package organizations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for tests and local development.
type MemoryRepo struct {
	mu   sync.RWMutex
	orgs map[string]Organization
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{orgs: make(map[string]Organization)}
}

func (r *MemoryRepo) Create(ctx context.Context, org Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orgs[org.ID] = org
	return nil
}

func (r *MemoryRepo) GetByOwner(ctx context.Context, ownerID, orgID string) (Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	org, ok := r.orgs[orgID]
	if !ok || org.UserID != ownerID {
		return Organization{}, ErrNotFound
	}
	return org, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, ownerID string) ([]Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Organization
	for _, org := range r.orgs {
		if org.UserID == ownerID {
			out = append(out, org)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, orgID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	org, ok := r.orgs[orgID]
	if !ok || org.UserID != ownerID {
		return ErrNotFound
	}
	delete(r.orgs, orgID)
	return nil
}
