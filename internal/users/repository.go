// internal/users/repository.go
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"shareit/internal/apperr"
)

// Repository is the storage abstraction over user rows.
type Repository interface {
	Insert(ctx context.Context, name, email string) (*User, error)
	Save(ctx context.Context, user *User) error
	Get(ctx context.Context, id int64) (*User, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]User, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a Postgres-backed user repository.
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, name, email string) (*User, error) {
	user := &User{Name: name, Email: email}
	query := `
		INSERT INTO users (name, email)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, name, email).Scan(&user.ID)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *postgresRepository) Save(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2
		WHERE id = $3
	`
	if _, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.ID); err != nil {
		return translate(err)
	}
	return nil
}

// Get returns (nil, nil) when no user exists with the given id.
func (r *postgresRepository) Get(ctx context.Context, id int64) (*User, error) {
	user := &User{}
	query := `
		SELECT id, name, email
		FROM users
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return translate(err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context) ([]User, error) {
	var result []User
	query := `
		SELECT id, name, email
		FROM users
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return result, nil
}

// translate maps constraint violations onto the error taxonomy: a
// duplicate email is a conflict, as is deleting a user still referenced
// by items, bookings, requests or comments.
func translate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return apperr.Conflict("email is already registered")
		case "23503":
			return apperr.Conflict("user is still referenced and cannot be deleted")
		}
	}
	return fmt.Errorf("user storage: %w", err)
}
