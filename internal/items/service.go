// internal/items/service.go
package items

import "context"

// Service defines the interface for the item catalog and comment board.
type Service interface {
	Create(ctx context.Context, ownerID int64, in CreateItem) (*Item, error)
	Update(ctx context.Context, ownerID, itemID int64, upd UpdateItem) (*Item, error)
	GetByID(ctx context.Context, itemID int64) (*ItemDto, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]ItemDto, error)
	Delete(ctx context.Context, ownerID, itemID int64) (*Item, error)
	Search(ctx context.Context, text string) ([]Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentDto, error)
}
