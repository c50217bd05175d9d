// internal/items/repository.go
package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"shareit/internal/apperr"
)

// Repository is the storage abstraction over item and comment rows.
type Repository interface {
	Insert(ctx context.Context, item *Item) (int64, error)
	Get(ctx context.Context, id int64) (*Item, error)
	GetByOwner(ctx context.Context, id, ownerID int64) (*Item, error)
	Save(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]Item, error)
	Search(ctx context.Context, text string) ([]Item, error)

	InsertComment(ctx context.Context, itemID, authorID int64, text string) (*Comment, error)
	CommentsForItem(ctx context.Context, itemID int64) ([]Comment, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewRepository creates a Postgres-backed item repository.
func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Insert stores the item and, when it fulfills a request, records the
// request link in the same transaction.
func (r *postgresRepository) Insert(ctx context.Context, item *Item) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO items (name, description, available, owner_id, request_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, item.Name, item.Description, item.Available, item.OwnerID, item.RequestID).Scan(&id)
	if err != nil {
		return 0, translateRequestRef(err)
	}

	if item.RequestID != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO request_items (request_id, item_id)
			VALUES ($1, $2)
		`, *item.RequestID, id)
		if err != nil {
			return 0, translateRequestRef(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit item insert: %w", err)
	}
	return id, nil
}

// Get returns (nil, nil) when no item exists with the given id.
func (r *postgresRepository) Get(ctx context.Context, id int64) (*Item, error) {
	item := &Item{}
	query := `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByOwner returns (nil, nil) unless the item exists and belongs to
// the given owner.
func (r *postgresRepository) GetByOwner(ctx context.Context, id, ownerID int64) (*Item, error) {
	item := &Item{}
	query := `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE id = $1 AND owner_id = $2
	`
	err := r.db.GetContext(ctx, item, query, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item by owner: %w", err)
	}
	return item, nil
}

func (r *postgresRepository) Save(ctx context.Context, item *Item) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET name = $1, description = $2, available = $3
		WHERE id = $4
	`, item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]Item, error) {
	var result []Item
	query := `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE owner_id = $1
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &result, query, ownerID); err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}
	return result, nil
}

// likeEscaper neutralizes LIKE metacharacters so search text matches
// literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search matches the text against name and description of available
// items, case-insensitively.
func (r *postgresRepository) Search(ctx context.Context, text string) ([]Item, error) {
	var result []Item
	query := `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE available = TRUE
		  AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &result, query, likeEscaper.Replace(text)); err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return result, nil
}

func (r *postgresRepository) InsertComment(ctx context.Context, itemID, authorID int64, text string) (*Comment, error) {
	comment := &Comment{}
	query := `
		WITH inserted AS (
			INSERT INTO comments (text, item_id, author_id)
			VALUES ($1, $2, $3)
			RETURNING id, text, item_id, author_id, created_at
		)
		SELECT c.id, c.text, c.item_id, c.author_id, u.name AS author_name, c.created_at
		FROM inserted c
		JOIN users u ON u.id = c.author_id
	`
	if err := r.db.GetContext(ctx, comment, query, text, itemID, authorID); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return comment, nil
}

func (r *postgresRepository) CommentsForItem(ctx context.Context, itemID int64) ([]Comment, error) {
	var result []Comment
	query := `
		SELECT c.id, c.text, c.item_id, c.author_id, u.name AS author_name, c.created_at
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id = $1
		ORDER BY c.created_at
	`
	if err := r.db.SelectContext(ctx, &result, query, itemID); err != nil {
		return nil, fmt.Errorf("comments for item: %w", err)
	}
	return result, nil
}

// translateRequestRef maps a broken request reference onto the error
// taxonomy; a linked request that does not exist is a not-found, not a
// storage failure.
func translateRequestRef(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return apperr.NotFound("item request not found")
	}
	return fmt.Errorf("item storage: %w", err)
}
