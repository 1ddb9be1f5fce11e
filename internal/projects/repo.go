package projects

import "context"

// Repo defines persistence operations for projects. Reads are scoped by
// the owning user so an unowned id behaves like a missing one.
type Repo interface {
	Create(ctx context.Context, p Project) error
	GetByOwner(ctx context.Context, ownerID, projectID string) (Project, error)
	ListByOrg(ctx context.Context, ownerID, orgID string) ([]Project, error)
	CountByOrg(ctx context.Context, orgID string) (int, error)
	Delete(ctx context.Context, ownerID, projectID string) error
	DeleteByOrg(ctx context.Context, orgID string) error
}
