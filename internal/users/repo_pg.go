package users

import (
	"context"
	"database/sql"
	"errors"

	"finance-backend/internal/shared/storage/db"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, username, email, password_hash, full_name, is_active, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, username, email, password_hash, full_name, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Username,
		nullableString(user.Email),
		user.PasswordHash,
		nullableString(user.FullName),
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return mapUniqueViolation(err)
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, userID)
}

func (r *PGRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1 LIMIT 1`, username)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) LIMIT 1`, email)
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg string) (User, error) {
	var (
		user     User
		email    sql.NullString
		fullName sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&email,
		&user.PasswordHash,
		&fullName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Email = email.String
	user.FullName = fullName.String
	return user, nil
}

func (r *PGRepo) UpdateProfile(ctx context.Context, user User) error {
	const query = `
UPDATE users
SET full_name = $2,
    email = $3,
    updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, user.ID, nullableString(user.FullName), nullableString(user.Email))
	if err != nil {
		return mapUniqueViolation(err)
	}
	return requireRow(res)
}

func (r *PGRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	constraint, ok := db.UniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case "users_email_key", "users_email_lower_key":
		return &ConflictError{Field: "email"}
	default:
		return &ConflictError{Field: "username"}
	}
}

func nullableString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
