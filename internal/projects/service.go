package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docflow-backend/internal/organizations"
	"docflow-backend/internal/shared/storage/object"
	"docflow-backend/internal/shared/telemetry"
)

// DocumentStore is the slice of the documents repo the project service
// needs: counts for listing, storage keys and row purge for cascade
// delete.
type DocumentStore interface {
	CountByProject(ctx context.Context, projectID string) (int, error)
	StorageKeysByProject(ctx context.Context, projectID string) ([]string, error)
	DeleteByProject(ctx context.Context, projectID string) error
}

type Service struct {
	repo      Repo
	orgs      organizations.Repo
	documents DocumentStore
	store     object.Store
	now       func() time.Time
}

func NewService(repo Repo, orgs organizations.Repo, documents DocumentStore, store object.Store) *Service {
	return &Service{
		repo:      repo,
		orgs:      orgs,
		documents: documents,
		store:     store,
		now:       time.Now,
	}
}

type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) Create(ctx context.Context, userID, orgID string, in CreateInput) (Project, error) {
	if _, err := s.orgs.GetByOwner(ctx, userID, orgID); err != nil {
		return Project{}, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	p := Project{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		OwnerID:     userID,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Project{}, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, userID, orgID string) ([]Project, error) {
	if _, err := s.orgs.GetByOwner(ctx, userID, orgID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListByOrg(ctx, userID, orgID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	for i := range out {
		n, err := s.documents.CountByProject(ctx, out[i].ID)
		if err != nil {
			return nil, fmt.Errorf("count documents for project %s: %w", out[i].ID, err)
		}
		out[i].DocumentCount = n
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, projectID string) (Project, error) {
	p, err := s.repo.GetByOwner(ctx, userID, projectID)
	if err != nil {
		return Project{}, err
	}
	n, err := s.documents.CountByProject(ctx, projectID)
	if err != nil {
		return Project{}, fmt.Errorf("count documents for project %s: %w", projectID, err)
	}
	p.DocumentCount = n
	return p, nil
}

// Delete removes the project and its documents. Rows are purged
// explicitly so all backends behave alike, then blobs are cleared
// best-effort.
func (s *Service) Delete(ctx context.Context, userID, projectID string) error {
	if _, err := s.repo.GetByOwner(ctx, userID, projectID); err != nil {
		return err
	}
	keys, err := s.documents.StorageKeysByProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("list document blobs for project %s: %w", projectID, err)
	}
	if err := s.documents.DeleteByProject(ctx, projectID); err != nil {
		return fmt.Errorf("purge documents for project %s: %w", projectID, err)
	}
	if err := s.repo.Delete(ctx, userID, projectID); err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			telemetry.Warn("project.delete.blob_orphaned", map[string]any{
				"project_id":  projectID,
				"storage_key": key,
				"error":       err.Error(),
			})
		}
	}
	return nil
}
