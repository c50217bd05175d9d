// internal/bookings/implementation.go
package bookings

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/users"
)

// lastBookingGrace keeps a booking out of the "last" slot until its
// end is comfortably in the past, so annotations do not flap while a
// booking is ending right now.
const lastBookingGrace = time.Minute

// service implements the Service interface.
type service struct {
	repo  Repository
	users users.Service
	now   func() time.Time
}

// NewService creates a new booking engine instance.
func NewService(repo Repository, users users.Service) Service {
	return &service{repo: repo, users: users, now: time.Now}
}

func (s *service) Create(ctx context.Context, bookerID int64, req CreateRequest) (*BookingDto, error) {
	if _, err := s.users.GetByID(ctx, bookerID); err != nil {
		return nil, err
	}
	if req.ItemID <= 0 {
		return nil, apperr.NotFound("item not specified")
	}
	if err := validateRange(req.Start, req.End, s.now()); err != nil {
		return nil, err
	}

	item, err := s.repo.ResolveItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found", req.ItemID)
	}
	if item.OwnerID == bookerID {
		return nil, apperr.AccessDenied("owner cannot book their own item")
	}
	if !item.Available {
		return nil, apperr.Validation("item %d is not available", req.ItemID)
	}

	id, err := s.repo.Insert(ctx, req.ItemID, bookerID, req.Start, req.End, StatusWaiting)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %d missing right after insert", id)
	}
	dto := booking.Dto()
	return &dto, nil
}

// Approve decides a WAITING booking. The transition is guarded in
// storage so a booking can never be decided twice, even under
// concurrent approvals.
func (s *service) Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*BookingDto, error) {
	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}
	if booking.OwnerID != ownerID {
		return nil, apperr.AccessDenied("only the item owner may decide a booking")
	}

	status := StatusRejected
	if approved {
		status = StatusApproved
	}

	transitioned, err := s.repo.SetStatusFromWaiting(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return nil, apperr.Validation("booking %d has already been decided", bookingID)
	}

	booking.Status = status
	dto := booking.Dto()
	return &dto, nil
}

func (s *service) GetByID(ctx context.Context, userID, bookingID int64) (*BookingDto, error) {
	booking, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %d not found", bookingID)
	}
	if booking.BookerID != userID && booking.OwnerID != userID {
		return nil, apperr.AccessDenied("only the booker or the item owner may view a booking")
	}
	dto := booking.Dto()
	return &dto, nil
}

func (s *service) ListByBooker(ctx context.Context, bookerID int64, state State, from, size int) ([]BookingDto, error) {
	list, err := s.repo.ListByBooker(ctx, bookerID, state, s.now(), from, size)
	if err != nil {
		return nil, err
	}
	return toDtos(list), nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64, state State) ([]BookingDto, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByOwner(ctx, ownerID, state, s.now())
	if err != nil {
		return nil, err
	}
	return toDtos(list), nil
}

func (s *service) LastForItem(ctx context.Context, itemID int64) (*BookingDto, error) {
	booking, err := s.repo.LastForItem(ctx, itemID, s.now().Add(-lastBookingGrace))
	if err != nil || booking == nil {
		return nil, err
	}
	dto := booking.Dto()
	return &dto, nil
}

func (s *service) NextForItem(ctx context.Context, itemID int64) (*BookingDto, error) {
	booking, err := s.repo.NextForItem(ctx, itemID, s.now())
	if err != nil || booking == nil {
		return nil, err
	}
	dto := booking.Dto()
	return &dto, nil
}

func (s *service) FinishedByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]BookingDto, error) {
	list, err := s.repo.FinishedByItemAndBooker(ctx, itemID, bookerID, s.now())
	if err != nil {
		return nil, err
	}
	return toDtos(list), nil
}

// validateRange enforces the temporal rules on a new booking: both
// ends present, start not in the past, end strictly in the future and
// after start.
func validateRange(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperr.Validation("start and end are required")
	}
	if start.Before(now) {
		return apperr.Validation("start must not be in the past")
	}
	if !end.After(now) {
		return apperr.Validation("end must be in the future")
	}
	if !start.Before(end) {
		return apperr.Validation("start must be before end")
	}
	return nil
}

func toDtos(list []Booking) []BookingDto {
	result := make([]BookingDto, 0, len(list))
	for _, b := range list {
		result = append(result, b.Dto())
	}
	return result
}
