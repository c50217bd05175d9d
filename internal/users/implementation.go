// internal/users/implementation.go
package users

import (
	"context"
	"strings"

	"shareit/internal/apperr"
)

// service implements the Service interface.
type service struct {
	repo Repository
}

// NewService creates a new user directory service instance.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name, email string) (*User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name must not be blank")
	}
	if strings.TrimSpace(email) == "" {
		return nil, apperr.Validation("email must not be blank")
	}
	return s.repo.Insert(ctx, name, email)
}

func (s *service) Update(ctx context.Context, id int64, upd Update) (*User, error) {
	if upd.Name == nil && upd.Email == nil {
		return nil, apperr.Validation("at least one field must be provided")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, apperr.Validation("name must not be blank")
		}
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		if strings.TrimSpace(*upd.Email) == "" {
			return nil, apperr.Validation("email must not be blank")
		}
		user.Email = *upd.Email
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return user, nil
}

// Delete removes the user and returns the removed record. Users still
// referenced by items or bookings are protected by the schema and the
// delete fails with a conflict.
func (s *service) Delete(ctx context.Context, id int64) (*User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
