// internal/bookings/service.go
package bookings

import "context"

// Service defines the interface for the booking engine.
type Service interface {
	Create(ctx context.Context, bookerID int64, req CreateRequest) (*BookingDto, error)
	Approve(ctx context.Context, ownerID, bookingID int64, approved bool) (*BookingDto, error)
	GetByID(ctx context.Context, userID, bookingID int64) (*BookingDto, error)
	ListByBooker(ctx context.Context, bookerID int64, state State, from, size int) ([]BookingDto, error)
	ListByOwner(ctx context.Context, ownerID int64, state State) ([]BookingDto, error)

	// LastForItem and NextForItem annotate item detail views. Both
	// return (nil, nil) when no qualifying booking exists.
	LastForItem(ctx context.Context, itemID int64) (*BookingDto, error)
	NextForItem(ctx context.Context, itemID int64) (*BookingDto, error)

	// FinishedByItemAndBooker returns the booker's approved bookings of
	// the item that have already ended; the comment board uses a
	// non-empty result to gate review eligibility.
	FinishedByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]BookingDto, error)
}
