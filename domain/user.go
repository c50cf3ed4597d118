package domain

import "time"

// User represents a registered account. PasswordHash is the bcrypt digest of
// the password; the raw password is never stored.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
