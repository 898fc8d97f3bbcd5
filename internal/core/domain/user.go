package domain

import "time"

// User models a registered account. The password hash never leaves the
// process boundary: the `json:"-"` tag keeps it out of every API response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
