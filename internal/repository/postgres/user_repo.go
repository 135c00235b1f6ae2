package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fernweh-labs/tripdesk/internal/domain/user"
)

var _ user.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const (
	qUserInsert = `
INSERT INTO users (email, password_hash, first_name, last_name, line_manager_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, email, password_hash, first_name, last_name, line_manager_id, email_opt_out, created_at, updated_at;`

	qUserByID = `
SELECT id, email, password_hash, first_name, last_name, line_manager_id, email_opt_out, created_at, updated_at
FROM users
WHERE id = $1;`

	qUserByEmail = `
SELECT id, email, password_hash, first_name, last_name, line_manager_id, email_opt_out, created_at, updated_at
FROM users
WHERE email = $1;`

	qUserSetManager = `
UPDATE users
SET line_manager_id = $2,
    updated_at      = NOW()
WHERE id = $1;`

	qUserSetOptOut = `
UPDATE users
SET email_opt_out = $2,
    updated_at    = NOW()
WHERE id = $1;`
)

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserInsert,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.LineManagerID), u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByID, id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByEmail, email), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) SetLineManager(ctx context.Context, id int64, managerID *int64) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qUserSetManager, id, managerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrConstraint
		}
		return fmt.Errorf("user set manager: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) SetEmailOptOut(ctx context.Context, id int64, optOut bool) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	cmd, err := r.db.Pool.Exec(ctx, qUserSetOptOut, id, optOut)
	if err != nil {
		return fmt.Errorf("user set opt-out: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, out *user.User) error {
	if err := row.Scan(
		&out.ID,
		&out.Email,
		&out.PasswordHash,
		&out.FirstName,
		&out.LastName,
		&out.LineManagerID,
		&out.EmailOptOut,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan user: %w", err)
	}
	return nil
}
