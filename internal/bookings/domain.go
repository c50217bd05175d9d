// internal/bookings/domain.go
package bookings

import (
	"strings"
	"time"

	"shareit/internal/apperr"
)

// Status is the approval status of a booking. A booking starts
// WAITING and transitions exactly once to APPROVED or REJECTED.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// State names a temporal/status bucket used to slice a booker's or
// owner's booking list. Temporal buckets are evaluated against "now"
// at query time.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState parses a state filter, case-insensitively. The empty
// string means ALL.
func ParseState(s string) (State, error) {
	if s == "" {
		return StateAll, nil
	}
	state := State(strings.ToUpper(s))
	switch state {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return state, nil
	}
	return "", apperr.Validation("unknown state: %s", s)
}

// Booking is one booking row joined with its item and booker. OwnerID
// is the item owner, carried for access checks.
type Booking struct {
	ID         int64     `db:"id"`
	StartAt    time.Time `db:"start_at"`
	EndAt      time.Time `db:"end_at"`
	Status     Status    `db:"status"`
	BookerID   int64     `db:"booker_id"`
	BookerName string    `db:"booker_name"`
	ItemID     int64     `db:"item_id"`
	ItemName   string    `db:"item_name"`
	OwnerID    int64     `db:"owner_id"`
}

// UserRef identifies the booker inside a booking response.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemRef identifies the booked item inside a booking response.
type ItemRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingDto is the transfer shape returned to clients.
type BookingDto struct {
	ID     int64     `json:"id"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status Status    `json:"status"`
	Booker UserRef   `json:"booker"`
	Item   ItemRef   `json:"item"`
}

// Dto converts the stored record into its transfer shape.
func (b Booking) Dto() BookingDto {
	return BookingDto{
		ID:     b.ID,
		Start:  b.StartAt,
		End:    b.EndAt,
		Status: b.Status,
		Booker: UserRef{ID: b.BookerID, Name: b.BookerName},
		Item:   ItemRef{ID: b.ItemID, Name: b.ItemName},
	}
}

// CreateRequest is the payload for creating a booking.
type CreateRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// ItemInfo is the slice of an item the booking engine needs for
// authorization and availability checks.
type ItemInfo struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	OwnerID   int64  `db:"owner_id"`
	Available bool   `db:"available"`
}
