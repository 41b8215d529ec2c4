package models

import "time"

// RefreshToken is an opaque server-side token used to mint new access tokens.
// A token is single-use: refreshing rotates it and revokes the old row.
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"-" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
