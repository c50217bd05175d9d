// internal/users/service.go
package users

import "context"

// Service defines the interface for the user directory.
type Service interface {
	Create(ctx context.Context, name, email string) (*User, error)
	Update(ctx context.Context, id int64, upd Update) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Delete(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
}
