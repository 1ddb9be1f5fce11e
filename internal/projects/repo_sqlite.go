package projects

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"docflow-backend/internal/shared/storage/db"
)

type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

func (r *SQLiteRepo) Create(ctx context.Context, p Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, org_id, owner_id, name, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.OrgID, p.OwnerID, p.Name, p.Description, p.CreatedAt.UTC().Format(db.SQLiteTimeLayout))
	return err
}

func (r *SQLiteRepo) GetByOwner(ctx context.Context, ownerID, projectID string) (Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, org_id, owner_id, name, description, created_at
		FROM projects
		WHERE id = ? AND owner_id = ?
	`, projectID, ownerID)
	return scanSQLiteProject(row.Scan)
}

func (r *SQLiteRepo) ListByOrg(ctx context.Context, ownerID, orgID string) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, org_id, owner_id, name, description, created_at
		FROM projects
		WHERE org_id = ? AND owner_id = ?
		ORDER BY created_at DESC
	`, orgID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		p, err := scanSQLiteProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountByOrg(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM projects WHERE org_id = ?
	`, orgID).Scan(&n)
	return n, err
}

func (r *SQLiteRepo) Delete(ctx context.Context, ownerID, projectID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM projects WHERE id = ? AND owner_id = ?
	`, projectID, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepo) DeleteByOrg(ctx context.Context, orgID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE org_id = ?`, orgID)
	return err
}

func scanSQLiteProject(scan func(dest ...any) error) (Project, error) {
	var p Project
	var createdAt string
	err := scan(&p.ID, &p.OrgID, &p.OwnerID, &p.Name, &p.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, err
	}
	p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Project{}, err
	}
	return p, nil
}
