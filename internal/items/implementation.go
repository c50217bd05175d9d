// internal/items/implementation.go
package items

import (
	"context"
	"strings"
	"unicode/utf8"

	"shareit/internal/apperr"
	"shareit/internal/bookings"
	"shareit/internal/users"
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 512
)

// service implements the Service interface.
type service struct {
	repo     Repository
	users    users.Service
	bookings bookings.Service
}

// NewService creates a new item catalog service instance.
func NewService(repo Repository, users users.Service, bookings bookings.Service) Service {
	return &service{repo: repo, users: users, bookings: bookings}
}

func (s *service) Create(ctx context.Context, ownerID int64, in CreateItem) (*Item, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateDescription(in.Description); err != nil {
		return nil, err
	}
	if in.Available == nil {
		return nil, apperr.Validation("available is required")
	}
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	item := &Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   *in.Available,
		OwnerID:     ownerID,
		RequestID:   in.RequestID,
	}
	id, err := s.repo.Insert(ctx, item)
	if err != nil {
		return nil, err
	}
	item.ID = id
	return item, nil
}

// Update applies a partial update. Only the owner sees the item here:
// anyone else gets a not-found, never a foreign item.
func (s *service) Update(ctx context.Context, ownerID, itemID int64, upd UpdateItem) (*Item, error) {
	item, err := s.repo.GetByOwner(ctx, itemID, ownerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}

	if upd.Name != nil {
		if err := validateName(*upd.Name); err != nil {
			return nil, err
		}
		item.Name = *upd.Name
	}
	if upd.Description != nil {
		if err := validateDescription(*upd.Description); err != nil {
			return nil, err
		}
		item.Description = *upd.Description
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) GetByID(ctx context.Context, itemID int64) (*ItemDto, error) {
	item, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}
	return s.annotate(ctx, *item)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64) ([]ItemDto, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	result := make([]ItemDto, 0, len(list))
	for _, item := range list {
		dto, err := s.annotate(ctx, item)
		if err != nil {
			return nil, err
		}
		result = append(result, *dto)
	}
	return result, nil
}

func (s *service) Delete(ctx context.Context, ownerID, itemID int64) (*Item, error) {
	item, err := s.repo.GetByOwner(ctx, itemID, ownerID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}
	if err := s.repo.Delete(ctx, itemID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) Search(ctx context.Context, text string) ([]Item, error) {
	if strings.TrimSpace(text) == "" {
		return []Item{}, nil
	}
	list, err := s.repo.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Item{}
	}
	return list, nil
}

// AddComment lets a past booker review the item. Eligibility requires
// at least one approved booking of the item that has already ended.
func (s *service) AddComment(ctx context.Context, authorID, itemID int64, text string) (*CommentDto, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperr.Validation("comment text must not be blank")
	}
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return nil, err
	}

	item, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", itemID)
	}

	finished, err := s.bookings.FinishedByItemAndBooker(ctx, itemID, authorID)
	if err != nil {
		return nil, err
	}
	if len(finished) == 0 {
		return nil, apperr.Validation("user %d has no finished booking of item %d", authorID, itemID)
	}

	comment, err := s.repo.InsertComment(ctx, itemID, authorID, text)
	if err != nil {
		return nil, err
	}
	dto := comment.Dto()
	return &dto, nil
}

// annotate attaches comments and the last/next approved bookings to an
// item.
func (s *service) annotate(ctx context.Context, item Item) (*ItemDto, error) {
	comments, err := s.repo.CommentsForItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	dto := &ItemDto{Item: item, Comments: make([]CommentDto, 0, len(comments))}
	for _, c := range comments {
		dto.Comments = append(dto.Comments, c.Dto())
	}

	if dto.LastBooking, err = s.bookings.LastForItem(ctx, item.ID); err != nil {
		return nil, err
	}
	if dto.NextBooking, err = s.bookings.NextForItem(ctx, item.ID); err != nil {
		return nil, err
	}
	return dto, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Validation("name must not be blank")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return apperr.Validation("name must not exceed %d characters", maxNameLen)
	}
	return nil
}

func validateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return apperr.Validation("description must not be blank")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return apperr.Validation("description must not exceed %d characters", maxDescriptionLen)
	}
	return nil
}
