package organizations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docflow-backend/internal/shared/storage/object"
	"docflow-backend/internal/shared/telemetry"
)

// ProjectStore is the slice of the projects repo the organization
// service needs: counts for listing and row purge for cascade delete.
type ProjectStore interface {
	CountByOrg(ctx context.Context, orgID string) (int, error)
	DeleteByOrg(ctx context.Context, orgID string) error
}

// DocumentStore is the slice of the documents repo used for cascade
// delete: the storage keys to clean up and the row purge.
type DocumentStore interface {
	StorageKeysByOrg(ctx context.Context, orgID string) ([]string, error)
	DeleteByOrg(ctx context.Context, orgID string) error
}

type Service struct {
	repo      Repo
	projects  ProjectStore
	documents DocumentStore
	store     object.Store
	now       func() time.Time
}

func NewService(repo Repo, projects ProjectStore, documents DocumentStore, store object.Store) *Service {
	return &Service{
		repo:      repo,
		projects:  projects,
		documents: documents,
		store:     store,
		now:       time.Now,
	}
}

type CreateInput struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	TeamStrength string `json:"teamStrength"`
	Logo         string `json:"logo"`
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Organization, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Organization{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	org := Organization{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         name,
		Type:         strings.TrimSpace(in.Type),
		TeamStrength: strings.TrimSpace(in.TeamStrength),
		Logo:         strings.TrimSpace(in.Logo),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, org); err != nil {
		return Organization{}, fmt.Errorf("create organization: %w", err)
	}
	return org, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Organization, error) {
	orgs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	for i := range orgs {
		n, err := s.projects.CountByOrg(ctx, orgs[i].ID)
		if err != nil {
			return nil, fmt.Errorf("count projects for org %s: %w", orgs[i].ID, err)
		}
		orgs[i].ProjectCount = n
	}
	return orgs, nil
}

func (s *Service) Get(ctx context.Context, userID, orgID string) (Organization, error) {
	org, err := s.repo.GetByOwner(ctx, userID, orgID)
	if err != nil {
		return Organization{}, err
	}
	n, err := s.projects.CountByOrg(ctx, orgID)
	if err != nil {
		return Organization{}, fmt.Errorf("count projects for org %s: %w", orgID, err)
	}
	org.ProjectCount = n
	return org, nil
}

// Delete removes the organization and everything under it. Rows are
// purged explicitly so all backends behave alike; blobs are removed
// best-effort afterwards so a storage hiccup never strands the delete.
func (s *Service) Delete(ctx context.Context, userID, orgID string) error {
	if _, err := s.repo.GetByOwner(ctx, userID, orgID); err != nil {
		return err
	}
	keys, err := s.documents.StorageKeysByOrg(ctx, orgID)
	if err != nil {
		return fmt.Errorf("list document blobs for org %s: %w", orgID, err)
	}
	if err := s.documents.DeleteByOrg(ctx, orgID); err != nil {
		return fmt.Errorf("purge documents for org %s: %w", orgID, err)
	}
	if err := s.projects.DeleteByOrg(ctx, orgID); err != nil {
		return fmt.Errorf("purge projects for org %s: %w", orgID, err)
	}
	if err := s.repo.Delete(ctx, userID, orgID); err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			telemetry.Warn("org.delete.blob_orphaned", map[string]any{
				"org_id":      orgID,
				"storage_key": key,
				"error":       err.Error(),
			})
		}
	}
	return nil
}
