package organizations

import "context"

// Repo defines persistence operations for organizations. Lookups are
// scoped by the owning user so an unowned id behaves like a missing one.
type Repo interface {
	Create(ctx context.Context, org Organization) error
	GetByOwner(ctx context.Context, ownerID, orgID string) (Organization, error)
	ListByUser(ctx context.Context, ownerID string) ([]Organization, error)
	Delete(ctx context.Context, ownerID, orgID string) error
}
