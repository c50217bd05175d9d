// internal/requests/domain.go
package requests

import "time"

// ItemRequest is a user's posted need for an item not currently
// listed.
type ItemRequest struct {
	ID          int64     `json:"id" db:"id"`
	Description string    `json:"description" db:"description"`
	RequesterID int64     `json:"-" db:"requester_id"`
	Created     time.Time `json:"created" db:"created_at"`
}

// ItemResponse is an item offered against a request.
type ItemResponse struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	OwnerID int64  `json:"ownerId" db:"owner_id"`
}

// RequestDto is a request with its fulfilling items attached.
type RequestDto struct {
	ItemRequest
	Items []ItemResponse `json:"items"`
}
