package projects

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

func (r *PGRepo) Create(ctx context.Context, p Project) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, org_id, owner_id, name, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.OrgID, p.OwnerID, p.Name, p.Description, p.CreatedAt)
	return err
}

func (r *PGRepo) GetByOwner(ctx context.Context, ownerID, projectID string) (Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, org_id, owner_id, name, description, created_at
		FROM projects
		WHERE id = $1 AND owner_id = $2
	`, projectID, ownerID)

	var p Project
	err := row.Scan(&p.ID, &p.OrgID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	if err != nil {
		return Project{}, err
	}
	return p, nil
}

func (r *PGRepo) ListByOrg(ctx context.Context, ownerID, orgID string) ([]Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, org_id, owner_id, name, description, created_at
		FROM projects
		WHERE org_id = $1 AND owner_id = $2
		ORDER BY created_at DESC
	`, orgID, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.OrgID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountByOrg(ctx context.Context, orgID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM projects WHERE org_id = $1
	`, orgID).Scan(&n)
	return n, err
}

func (r *PGRepo) Delete(ctx context.Context, ownerID, projectID string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM projects WHERE id = $1 AND owner_id = $2
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

func (r *PGRepo) DeleteByOrg(ctx context.Context, orgID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE org_id = $1`, orgID)
	return err
}
