package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"docflow-backend/internal/shared/storage/db"
)

// SQLiteRepo implements Repo using SQLite. Timestamps are stored as
// fixed-width UTC text.
type SQLiteRepo struct {
	DB *sql.DB
}

func (r *SQLiteRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, name, password_hash, created_at)
VALUES (?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt.UTC().Format(db.SQLiteTimeLayout),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
		return ErrEmailTaken
	}
	return err
}

func (r *SQLiteRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, name, password_hash, created_at
FROM users
WHERE email = ?
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *SQLiteRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, name, password_hash, created_at
FROM users
WHERE id = ?
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *SQLiteRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var createdAt string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return user, nil
}

var _ Repo = (*SQLiteRepo)(nil)
