// internal/gateway/dto.go
package gateway

import "time"

// The gateway rejects malformed payloads at the edge so the server
// tier only ever sees well-formed requests. Business rules (ownership,
// availability, booking overlap) stay on the server side.

type createUserDto struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type updateUserDto struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

type createItemDto struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=512"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId,omitempty" validate:"omitempty,gt=0"`
}

type updateItemDto struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=512"`
	Available   *bool   `json:"available,omitempty"`
}

type createBookingDto struct {
	ItemID int64      `json:"itemId" validate:"required,gt=0"`
	Start  *time.Time `json:"start" validate:"required"`
	End    *time.Time `json:"end" validate:"required"`
}

// validTimeRange enforces what struct tags cannot: the window must sit
// in the future and be ordered.
func (d createBookingDto) validTimeRange(now time.Time) bool {
	if d.Start == nil || d.End == nil {
		return false
	}
	if d.Start.Before(now) || !d.End.After(now) {
		return false
	}
	return d.Start.Before(*d.End)
}

type createCommentDto struct {
	Text string `json:"text" validate:"required"`
}

type createRequestDto struct {
	Description string `json:"description" validate:"required"`
}
