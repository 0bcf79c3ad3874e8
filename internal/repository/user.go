package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tillworks/pos-api/internal/domain/auth"
)

const (
	createUserSQL = `INSERT INTO users (username, password_hash)
		VALUES ($1, $2) RETURNING id, username, password_hash, created_at`

	findUserByUsernameSQL = `SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1`

	findUserByIDSQL = `SELECT id, username, password_hash, created_at
		FROM users WHERE id = $1`

	uniqueViolationCode = "23505"
)

var _ auth.Repository = (*UserRepository)(nil)

// UserRepository implements auth.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new operator account. A duplicate username maps to
// auth.ErrUsernameTaken via the unique constraint.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string) (*auth.User, error) {
	rows, err := r.pool.Query(ctx, createUserSQL, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("creating user %q: %w", username, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, auth.ErrUsernameTaken
		}
		return nil, fmt.Errorf("creating user %q: %w", username, err)
	}
	return &u, nil
}

// FindByUsername returns the account with the given username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	rows, err := r.pool.Query(ctx, findUserByUsernameSQL, username)
	if err != nil {
		return nil, fmt.Errorf("finding user %q: %w", username, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("finding user %q: %w", username, err)
	}
	return &u, nil
}

// FindByID returns the account with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	rows, err := r.pool.Query(ctx, findUserByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("finding user %d: %w", id, err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("finding user %d: %w", id, err)
	}
	return &u, nil
}

func scanUser(row pgx.CollectableRow) (auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
