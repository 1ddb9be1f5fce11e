package organizations

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	db *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Create(ctx context.Context, org Organization) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (id, user_id, name, org_type, team_strength, logo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, org.ID, org.UserID, org.Name, org.Type, org.TeamStrength, org.Logo, org.CreatedAt)
	return err
}

func (r *PGRepo) GetByOwner(ctx context.Context, ownerID, orgID string) (Organization, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, org_type, team_strength, logo, created_at
		FROM organizations
		WHERE id = $1 AND user_id = $2
	`, orgID, ownerID)

	var org Organization
	err := row.Scan(&org.ID, &org.UserID, &org.Name, &org.Type, &org.TeamStrength, &org.Logo, &org.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Organization{}, ErrNotFound
	}
	if err != nil {
		return Organization{}, err
	}
	return org, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, ownerID string) ([]Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, org_type, team_strength, logo, created_at
		FROM organizations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		var org Organization
		if err := rows.Scan(&org.ID, &org.UserID, &org.Name, &org.Type, &org.TeamStrength, &org.Logo, &org.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, ownerID, orgID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM organizations WHERE id = $1 AND user_id = $2
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
