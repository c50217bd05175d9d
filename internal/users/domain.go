// internal/users/domain.go
package users

// User represents a registered person who can list items and book them.
type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// Update carries a partial update. Nil fields are left untouched.
type Update struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
