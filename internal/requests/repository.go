// internal/requests/repository.go
package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository is the storage abstraction over request rows and their
// item links.
type Repository interface {
	Insert(ctx context.Context, userID int64, description string) (*ItemRequest, error)
	Get(ctx context.Context, id int64) (*ItemRequest, error)
	ListByRequester(ctx context.Context, userID int64) ([]ItemRequest, error)
	ListOthers(ctx context.Context, userID int64, from, size int) ([]ItemRequest, error)
	ItemsForRequest(ctx context.Context, requestID int64) ([]ItemResponse, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a Postgres-backed request repository.
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Insert(ctx context.Context, userID int64, description string) (*ItemRequest, error) {
	request := &ItemRequest{}
	query := `
		INSERT INTO requests (description, requester_id)
		VALUES ($1, $2)
		RETURNING id, description, requester_id, created_at
	`
	if err := r.db.GetContext(ctx, request, query, description, userID); err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return request, nil
}

// Get returns (nil, nil) when no request exists with the given id.
func (r *postgresRepository) Get(ctx context.Context, id int64) (*ItemRequest, error) {
	request := &ItemRequest{}
	query := `
		SELECT id, description, requester_id, created_at
		FROM requests
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, request, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	return request, nil
}

func (r *postgresRepository) ListByRequester(ctx context.Context, userID int64) ([]ItemRequest, error) {
	var result []ItemRequest
	query := `
		SELECT id, description, requester_id, created_at
		FROM requests
		WHERE requester_id = $1
		ORDER BY created_at DESC, id DESC
	`
	if err := r.db.SelectContext(ctx, &result, query, userID); err != nil {
		return nil, fmt.Errorf("list requests by requester: %w", err)
	}
	return result, nil
}

func (r *postgresRepository) ListOthers(ctx context.Context, userID int64, from, size int) ([]ItemRequest, error) {
	var result []ItemRequest
	query := `
		SELECT id, description, requester_id, created_at
		FROM requests
		WHERE requester_id <> $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &result, query, userID, size, from); err != nil {
		return nil, fmt.Errorf("list other requests: %w", err)
	}
	return result, nil
}

func (r *postgresRepository) ItemsForRequest(ctx context.Context, requestID int64) ([]ItemResponse, error) {
	var result []ItemResponse
	query := `
		SELECT i.id, i.name, i.owner_id
		FROM request_items ri
		JOIN items i ON i.id = ri.item_id
		WHERE ri.request_id = $1
		ORDER BY ri.created_at
	`
	if err := r.db.SelectContext(ctx, &result, query, requestID); err != nil {
		return nil, fmt.Errorf("items for request: %w", err)
	}
	return result, nil
}
