// internal/requests/implementation.go
package requests

import (
	"context"
	"strings"

	"shareit/internal/apperr"
	"shareit/internal/users"
)

// service implements the Service interface.
type service struct {
	repo  Repository
	users users.Service
}

// NewService creates a new item request board instance.
func NewService(repo Repository, users users.Service) Service {
	return &service{repo: repo, users: users}
}

func (s *service) Create(ctx context.Context, userID int64, description string) (*ItemRequest, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperr.Validation("description must not be blank")
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.Insert(ctx, userID, description)
}

func (s *service) ListByRequester(ctx context.Context, userID int64) ([]RequestDto, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]RequestDto, 0, len(list))
	for _, request := range list {
		dto, err := s.withItems(ctx, request)
		if err != nil {
			return nil, err
		}
		result = append(result, *dto)
	}
	return result, nil
}

// ListOthers pages through other users' requests, newest first. Items
// are not attached here; the detail view carries them.
func (s *service) ListOthers(ctx context.Context, userID int64, from, size int) ([]ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListOthers(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []ItemRequest{}
	}
	return list, nil
}

func (s *service) GetByID(ctx context.Context, userID, requestID int64) (*RequestDto, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperr.NotFound("item request %d not found", requestID)
	}
	return s.withItems(ctx, *request)
}

func (s *service) withItems(ctx context.Context, request ItemRequest) (*RequestDto, error) {
	items, err := s.repo.ItemsForRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ItemResponse{}
	}
	return &RequestDto{ItemRequest: request, Items: items}, nil
}
