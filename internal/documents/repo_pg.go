package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docflow-backend/internal/extraction"
)

type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

const pgDocumentColumns = `id, project_id, org_id, owner_id, name, mime_type, file_format, size_bytes, storage_key, status, extraction, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, d Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (`+pgDocumentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, d.ID, d.ProjectID, d.OrgID, d.OwnerID, d.Name, d.MimeType, d.FileFormat,
		d.SizeBytes, d.StorageKey, d.Status, nil, d.CreatedAt, d.UpdatedAt)
	return err
}

func (r *PGRepo) GetByOwner(ctx context.Context, ownerID, documentID string) (Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+pgDocumentColumns+`
		FROM documents
		WHERE id = $1 AND owner_id = $2
	`, documentID, ownerID)
	return scanPGDocument(row.Scan)
}

func (r *PGRepo) ListByProject(ctx context.Context, ownerID, projectID string) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+pgDocumentColumns+`
		FROM documents
		WHERE project_id = $1 AND owner_id = $2
		ORDER BY created_at DESC
	`, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanPGDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM documents WHERE project_id = $1
	`, projectID).Scan(&n)
	return n, err
}

func (r *PGRepo) Rename(ctx context.Context, ownerID, documentID, name string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents SET name = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
	`, name, now, documentID, ownerID)
	if err != nil {
		return err
	}
	return requireRowPG(res)
}

func (r *PGRepo) Delete(ctx context.Context, ownerID, documentID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM documents WHERE id = $1 AND owner_id = $2
	`, documentID, ownerID)
	if err != nil {
		return err
	}
	return requireRowPG(res)
}

func (r *PGRepo) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE project_id = $1`, projectID)
	return err
}

func (r *PGRepo) DeleteByOrg(ctx context.Context, orgID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE org_id = $1`, orgID)
	return err
}

// MarkProcessing claims the document for extraction. The conditional
// update is the mutual exclusion point: under concurrent claims exactly
// one caller updates the row, everyone else gets ErrConflict.
func (r *PGRepo) MarkProcessing(ctx context.Context, documentID string, now, staleBefore time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET status = $1, extraction = NULL, updated_at = $2
		WHERE id = $3 AND (status <> $1 OR updated_at < $4)
	`, StatusProcessing, now, documentID, staleBefore)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Zero rows is ambiguous: the row may be gone rather than held
		// by another claimant.
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id = $1`, documentID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (r *PGRepo) MarkExtracted(ctx context.Context, documentID string, result *extraction.Result, now time.Time) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal extraction result: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET status = $1, extraction = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`, StatusExtracted, payload, now, documentID, StatusProcessing)
	if err != nil {
		return err
	}
	return requireRowPG(res)
}

func (r *PGRepo) MarkFailed(ctx context.Context, documentID string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET status = $1, extraction = NULL, updated_at = $2
		WHERE id = $3 AND status = $4
	`, StatusFailed, now, documentID, StatusProcessing)
	if err != nil {
		return err
	}
	return requireRowPG(res)
}

func (r *PGRepo) StorageKeysByProject(ctx context.Context, projectID string) ([]string, error) {
	return r.storageKeys(ctx, `SELECT storage_key FROM documents WHERE project_id = $1`, projectID)
}

func (r *PGRepo) StorageKeysByOrg(ctx context.Context, orgID string) ([]string, error) {
	return r.storageKeys(ctx, `SELECT storage_key FROM documents WHERE org_id = $1`, orgID)
}

func (r *PGRepo) storageKeys(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func requireRowPG(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPGDocument(scan func(dest ...any) error) (Document, error) {
	var d Document
	var raw []byte
	err := scan(&d.ID, &d.ProjectID, &d.OrgID, &d.OwnerID, &d.Name, &d.MimeType, &d.FileFormat,
		&d.SizeBytes, &d.StorageKey, &d.Status, &raw, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	if len(raw) > 0 {
		var result extraction.Result
		if err := json.Unmarshal(raw, &result); err != nil {
			return Document{}, fmt.Errorf("decode extraction result for %s: %w", d.ID, err)
		}
		d.Extraction = &result
	}
	return d, nil
}
