// internal/items/domain.go
package items

import (
	"time"

	"shareit/internal/bookings"
)

// Item represents a physical thing its owner shares with other users.
type Item struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Available   bool   `json:"available" db:"available"`
	OwnerID     int64  `json:"ownerId" db:"owner_id"`
	RequestID   *int64 `json:"requestId,omitempty" db:"request_id"`
}

// ItemDto is an item annotated with its comments and, for listings,
// the last and next approved bookings.
type ItemDto struct {
	Item
	Comments    []CommentDto         `json:"comments"`
	LastBooking *bookings.BookingDto `json:"lastBooking,omitempty"`
	NextBooking *bookings.BookingDto `json:"nextBooking,omitempty"`
}

// Comment is a review left on an item by a past booker, as stored.
type Comment struct {
	ID         int64     `db:"id"`
	Text       string    `db:"text"`
	ItemID     int64     `db:"item_id"`
	AuthorID   int64     `db:"author_id"`
	AuthorName string    `db:"author_name"`
	CreatedAt  time.Time `db:"created_at"`
}

// CommentDto is the transfer shape of a comment.
type CommentDto struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// Dto converts the stored comment into its transfer shape.
func (c Comment) Dto() CommentDto {
	return CommentDto{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.CreatedAt,
	}
}

// CreateItem is the payload for listing a new item. RequestID
// optionally links the item to the request it fulfills.
type CreateItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItem carries a partial update. Nil fields are left untouched.
type UpdateItem struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}
