package documents

import (
	"context"
	"time"

	"docflow-backend/internal/extraction"
)

// Repo defines persistence operations for documents. Reads are scoped by
// the owning user so an unowned id behaves like a missing one.
//
// MarkProcessing is the claim step of the extraction state machine: it
// must atomically flip exactly one caller to processing and clear any
// previous extraction result. A document already processing can only be
// re-claimed once its updated_at falls before staleBefore. A losing
// claim returns ErrConflict; a document deleted since it was read
// returns ErrNotFound.
type Repo interface {
	Create(ctx context.Context, d Document) error
	GetByOwner(ctx context.Context, ownerID, documentID string) (Document, error)
	ListByProject(ctx context.Context, ownerID, projectID string) ([]Document, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
	Rename(ctx context.Context, ownerID, documentID, name string, now time.Time) error
	Delete(ctx context.Context, ownerID, documentID string) error
	DeleteByProject(ctx context.Context, projectID string) error
	DeleteByOrg(ctx context.Context, orgID string) error

	MarkProcessing(ctx context.Context, documentID string, now, staleBefore time.Time) error
	MarkExtracted(ctx context.Context, documentID string, result *extraction.Result, now time.Time) error
	MarkFailed(ctx context.Context, documentID string, now time.Time) error

	StorageKeysByProject(ctx context.Context, projectID string) ([]string, error)
	StorageKeysByOrg(ctx context.Context, orgID string) ([]string, error)
}
