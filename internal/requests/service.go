// internal/requests/service.go
package requests

import "context"

// Service defines the interface for the item request board.
type Service interface {
	Create(ctx context.Context, userID int64, description string) (*ItemRequest, error)
	ListByRequester(ctx context.Context, userID int64) ([]RequestDto, error)
	ListOthers(ctx context.Context, userID int64, from, size int) ([]ItemRequest, error)
	GetByID(ctx context.Context, userID, requestID int64) (*RequestDto, error)
}
