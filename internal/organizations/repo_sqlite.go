package organizations

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

func (r *SQLiteRepo) Create(ctx context.Context, org Organization) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (id, user_id, name, org_type, team_strength, logo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, org.ID, org.UserID, org.Name, org.Type, org.TeamStrength, org.Logo, org.CreatedAt.UTC().Format(db.SQLiteTimeLayout))
	return err
}

func (r *SQLiteRepo) GetByOwner(ctx context.Context, ownerID, orgID string) (Organization, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, org_type, team_strength, logo, created_at
		FROM organizations
		WHERE id = ? AND user_id = ?
	`, orgID, ownerID)
	return scanSQLiteOrg(row.Scan)
}

func (r *SQLiteRepo) ListByUser(ctx context.Context, ownerID string) ([]Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, org_type, team_strength, logo, created_at
		FROM organizations
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		org, err := scanSQLiteOrg(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) Delete(ctx context.Context, ownerID, orgID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM organizations WHERE id = ? AND user_id = ?
	`, orgID, ownerID)
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

func scanSQLiteOrg(scan func(dest ...any) error) (Organization, error) {
	var org Organization
	var createdAt string
	err := scan(&org.ID, &org.UserID, &org.Name, &org.Type, &org.TeamStrength, &org.Logo, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	if err != nil {
		return Organization{}, err
	}
	org.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Organization{}, err
	}
	return org, nil
}
