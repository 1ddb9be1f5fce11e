package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"docflow-backend/internal/extraction"
	"docflow-backend/internal/shared/storage/db"
)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

const sqliteDocumentColumns = `id, project_id, org_id, owner_id, name, mime_type, file_format, size_bytes, storage_key, status, extraction, created_at, updated_at`

func (r *SQLiteRepo) Create(ctx context.Context, d Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (`+sqliteDocumentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.ProjectID, d.OrgID, d.OwnerID, d.Name, d.MimeType, d.FileFormat,
		d.SizeBytes, d.StorageKey, d.Status, nil, sqliteTime(d.CreatedAt), sqliteTime(d.UpdatedAt))
	return err
}

func (r *SQLiteRepo) GetByOwner(ctx context.Context, ownerID, documentID string) (Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sqliteDocumentColumns+`
		FROM documents
		WHERE id = ? AND owner_id = ?
	`, documentID, ownerID)
	return scanSQLiteDocument(row.Scan)
}

func (r *SQLiteRepo) ListByProject(ctx context.Context, ownerID, projectID string) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+sqliteDocumentColumns+`
		FROM documents
		WHERE project_id = ? AND owner_id = ?
		ORDER BY created_at DESC
	`, projectID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanSQLiteDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM documents WHERE project_id = ?
	`, projectID).Scan(&n)
	return n, err
}

func (r *SQLiteRepo) Rename(ctx context.Context, ownerID, documentID, name string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents SET name = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`, name, sqliteTime(now), documentID, ownerID)
	if err != nil {
		return err
	}
	return requireRowSQLite(res)
}

func (r *SQLiteRepo) Delete(ctx context.Context, ownerID, documentID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM documents WHERE id = ? AND owner_id = ?
	`, documentID, ownerID)
	if err != nil {
		return err
	}
	return requireRowSQLite(res)
}

func (r *SQLiteRepo) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE project_id = ?`, projectID)
	return err
}

func (r *SQLiteRepo) DeleteByOrg(ctx context.Context, orgID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE org_id = ?`, orgID)
	return err
}

// Timestamps are stored as fixed-width UTC strings, so the staleness
// predicate compares correctly as text and works the same as in Postgres.
func (r *SQLiteRepo) MarkProcessing(ctx context.Context, documentID string, now, staleBefore time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET status = ?, extraction = NULL, updated_at = ?
		WHERE id = ? AND (status <> ? OR updated_at < ?)
	`, StatusProcessing, sqliteTime(now), documentID, StatusProcessing, sqliteTime(staleBefore))
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
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM documents WHERE id = ?`, documentID).Scan(&one)
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

func (r *SQLiteRepo) MarkExtracted(ctx context.Context, documentID string, result *extraction.Result, now time.Time) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal extraction result: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET status = ?, extraction = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, StatusExtracted, string(payload), sqliteTime(now), documentID, StatusProcessing)
	if err != nil {
		return err
	}
	return requireRowSQLite(res)
}

func (r *SQLiteRepo) MarkFailed(ctx context.Context, documentID string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE documents
		SET status = ?, extraction = NULL, updated_at = ?
		WHERE id = ? AND status = ?
	`, StatusFailed, sqliteTime(now), documentID, StatusProcessing)
	if err != nil {
		return err
	}
	return requireRowSQLite(res)
}

func (r *SQLiteRepo) StorageKeysByProject(ctx context.Context, projectID string) ([]string, error) {
	return r.storageKeys(ctx, `SELECT storage_key FROM documents WHERE project_id = ?`, projectID)
}

func (r *SQLiteRepo) StorageKeysByOrg(ctx context.Context, orgID string) ([]string, error) {
	return r.storageKeys(ctx, `SELECT storage_key FROM documents WHERE org_id = ?`, orgID)
}

func (r *SQLiteRepo) storageKeys(ctx context.Context, query, arg string) ([]string, error) {
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

func sqliteTime(t time.Time) string {
	return t.UTC().Format(db.SQLiteTimeLayout)
}

func requireRowSQLite(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSQLiteDocument(scan func(dest ...any) error) (Document, error) {
	var d Document
	var raw sql.NullString
	var createdAt, updatedAt string
	err := scan(&d.ID, &d.ProjectID, &d.OrgID, &d.OwnerID, &d.Name, &d.MimeType, &d.FileFormat,
		&d.SizeBytes, &d.StorageKey, &d.Status, &raw, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	if d.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return Document{}, err
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return Document{}, err
	}
	if raw.Valid && raw.String != "" {
		var result extraction.Result
		if err := json.Unmarshal([]byte(raw.String), &result); err != nil {
			return Document{}, fmt.Errorf("decode extraction result for %s: %w", d.ID, err)
		}
		d.Extraction = &result
	}
	return d, nil
}
