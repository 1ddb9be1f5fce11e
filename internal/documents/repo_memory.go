package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"docflow-backend/internal/extraction"
)

// MemoryRepo is an in-memory Repo for tests and local development. The
// mutex makes MarkProcessing an atomic claim, same as the conditional
// update in the SQL backends.
type MemoryRepo struct {
	mu   sync.Mutex
	docs map[string]Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, d Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[d.ID] = d
	return nil
}

func (r *MemoryRepo) GetByOwner(ctx context.Context, ownerID, documentID string) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[documentID]
	if !ok || d.OwnerID != ownerID {
		return Document{}, ErrNotFound
	}
	return cloneDocument(d), nil
}

func (r *MemoryRepo) ListByProject(ctx context.Context, ownerID, projectID string) ([]Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Document
	for _, d := range r.docs {
		if d.ProjectID == projectID && d.OwnerID == ownerID {
			out = append(out, cloneDocument(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.docs {
		if d.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) Rename(ctx context.Context, ownerID, documentID, name string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[documentID]
	if !ok || d.OwnerID != ownerID {
		return ErrNotFound
	}
	d.Name = name
	d.UpdatedAt = now
	r.docs[documentID] = d
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, ownerID, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[documentID]
	if !ok || d.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.docs, documentID)
	return nil
}

func (r *MemoryRepo) DeleteByProject(ctx context.Context, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.docs {
		if d.ProjectID == projectID {
			delete(r.docs, id)
		}
	}
	return nil
}

func (r *MemoryRepo) DeleteByOrg(ctx context.Context, orgID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.docs {
		if d.OrgID == orgID {
			delete(r.docs, id)
		}
	}
	return nil
}

func (r *MemoryRepo) MarkProcessing(ctx context.Context, documentID string, now, staleBefore time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[documentID]
	if !ok {
		return ErrNotFound
	}
	if d.Status == StatusProcessing && !d.UpdatedAt.Before(staleBefore) {
		return ErrConflict
	}
	d.Status = StatusProcessing
	d.Extraction = nil
	d.UpdatedAt = now
	r.docs[documentID] = d
	return nil
}

func (r *MemoryRepo) MarkExtracted(ctx context.Context, documentID string, result *extraction.Result, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[documentID]
	if !ok || d.Status != StatusProcessing {
		return ErrNotFound
	}
	d.Status = StatusExtracted
	d.Extraction = result
	d.UpdatedAt = now
	r.docs[documentID] = d
	return nil
}

func (r *MemoryRepo) MarkFailed(ctx context.Context, documentID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[documentID]
	if !ok || d.Status != StatusProcessing {
		return ErrNotFound
	}
	d.Status = StatusFailed
	d.Extraction = nil
	d.UpdatedAt = now
	r.docs[documentID] = d
	return nil
}

func (r *MemoryRepo) StorageKeysByProject(ctx context.Context, projectID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []string
	for _, d := range r.docs {
		if d.ProjectID == projectID {
			keys = append(keys, d.StorageKey)
		}
	}
	return keys, nil
}

func (r *MemoryRepo) StorageKeysByOrg(ctx context.Context, orgID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keys []string
	for _, d := range r.docs {
		if d.OrgID == orgID {
			keys = append(keys, d.StorageKey)
		}
	}
	return keys, nil
}

func cloneDocument(d Document) Document {
	if d.Extraction != nil {
		result := *d.Extraction
		d.Extraction = &result
	}
	return d
}
