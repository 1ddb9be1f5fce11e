package projects

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo for tests and local development.
type MemoryRepo struct {
	mu       sync.RWMutex
	projects map[string]Project
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{projects: make(map[string]Project)}
}

func (r *MemoryRepo) Create(ctx context.Context, p Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = p
	return nil
}

func (r *MemoryRepo) GetByOwner(ctx context.Context, ownerID, projectID string) (Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[projectID]
	if !ok || p.OwnerID != ownerID {
		return Project{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) ListByOrg(ctx context.Context, ownerID, orgID string) ([]Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Project
	for _, p := range r.projects {
		if p.OrgID == orgID && p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) CountByOrg(ctx context.Context, orgID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.projects {
		if p.OrgID == orgID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok || p.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.projects, projectID)
	return nil
}

func (r *MemoryRepo) DeleteByOrg(ctx context.Context, orgID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.projects {
		if p.OrgID == orgID {
			delete(r.projects, id)
		}
	}
	return nil
}
