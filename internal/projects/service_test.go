package projects

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"docflow-backend/internal/organizations"
)

type fakeDocumentStore struct {
	counts map[string]int
	keys   map[string][]string
	purged []string
}

func (f *fakeDocumentStore) CountByProject(ctx context.Context, projectID string) (int, error) {
	return f.counts[projectID], nil
}

func (f *fakeDocumentStore) StorageKeysByProject(ctx context.Context, projectID string) ([]string, error) {
	return f.keys[projectID], nil
}

func (f *fakeDocumentStore) DeleteByProject(ctx context.Context, projectID string) error {
	f.purged = append(f.purged, projectID)
	return nil
}

type recordingStore struct {
	deleted []string
}

func (s *recordingStore) Put(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	return 0, nil
}

func (s *recordingStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	return nil, errors.New("not stored")
}

func (s *recordingStore) Delete(ctx context.Context, storageKey string) error {
	s.deleted = append(s.deleted, storageKey)
	return nil
}

func seedOrg(t *testing.T, orgs organizations.Repo, ownerID string) organizations.Organization {
	t.Helper()
	org := organizations.Organization{
		ID:        "org-" + ownerID,
		UserID:    ownerID,
		Name:      "Acme",
		CreatedAt: time.Now().UTC(),
	}
	if err := orgs.Create(context.Background(), org); err != nil {
		t.Fatalf("seed org: %v", err)
	}
	return org
}

func TestCreateChecksOrgOwnership(t *testing.T) {
	orgs := organizations.NewMemoryRepo()
	org := seedOrg(t, orgs, "user-1")
	svc := NewService(NewMemoryRepo(), orgs, &fakeDocumentStore{}, &recordingStore{})

	if _, err := svc.Create(context.Background(), "user-2", org.ID, CreateInput{Name: "Docs"}); !errors.Is(err, organizations.ErrNotFound) {
		t.Fatalf("expected org not found for other user, got %v", err)
	}

	p, err := svc.Create(context.Background(), "user-1", org.ID, CreateInput{Name: "Docs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.OrgID != org.ID || p.OwnerID != "user-1" {
		t.Fatalf("unexpected project %+v", p)
	}
}

func TestCreateRequiresName(t *testing.T) {
	orgs := organizations.NewMemoryRepo()
	org := seedOrg(t, orgs, "user-1")
	svc := NewService(NewMemoryRepo(), orgs, &fakeDocumentStore{}, &recordingStore{})

	if _, err := svc.Create(context.Background(), "user-1", org.ID, CreateInput{Name: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListWithDocumentCounts(t *testing.T) {
	orgs := organizations.NewMemoryRepo()
	org := seedOrg(t, orgs, "user-1")
	docs := &fakeDocumentStore{counts: map[string]int{}}
	svc := NewService(NewMemoryRepo(), orgs, docs, &recordingStore{})

	p, err := svc.Create(context.Background(), "user-1", org.ID, CreateInput{Name: "Docs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	docs.counts[p.ID] = 5

	out, err := svc.List(context.Background(), "user-1", org.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || out[0].DocumentCount != 5 {
		t.Fatalf("expected one project with 5 documents, got %+v", out)
	}
}

func TestDeleteCascadesBlobs(t *testing.T) {
	orgs := organizations.NewMemoryRepo()
	org := seedOrg(t, orgs, "user-1")
	store := &recordingStore{}
	docs := &fakeDocumentStore{keys: map[string][]string{}}
	repo := NewMemoryRepo()
	svc := NewService(repo, orgs, docs, store)

	p, err := svc.Create(context.Background(), "user-1", org.ID, CreateInput{Name: "Docs"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	docs.keys[p.ID] = []string{p.ID + "/a.txt"}

	if err := svc.Delete(context.Background(), "user-1", p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 {
		t.Fatalf("expected 1 blob delete, got %v", store.deleted)
	}
	if _, err := repo.GetByOwner(context.Background(), "user-1", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected project gone, got %v", err)
	}
}
