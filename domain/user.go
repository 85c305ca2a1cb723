package domain

import "time"

// User represents a registered account. Users are immutable once created.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	CredentialHash string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// Identity is the authenticated caller resolved by the session boundary.
// Core operations receive the user id from it explicitly.
type Identity struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	SessionID string `json:"-"`
}
