package models

import "time"

// PushSubscription defines a Web Push subscription based on the
// 'push_subscriptions' table. The endpoint is unique; a re-subscribe from a
// different account re-binds the row to the new owner. Rows are deleted when a
// delivery attempt reports the endpoint as gone (HTTP 404/410).
type PushSubscription struct {
	ID        int64     `json:"id" db:"id"`
	Endpoint  string    `json:"endpoint" db:"endpoint"`
	P256dh    string    `json:"p256dh" db:"p256dh"` // Client public key
	Auth      string    `json:"auth" db:"auth"`     // Client auth secret
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
