// Package domain contains core concepts of the chat system.
// This file defines User entities.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

type UserID int64

type User struct {
	ID           UserID
	Name         string
	PasswordHash string
	PublicKey    string
	CreatedAt    time.Time
}

// RefreshToken is a long-lived opaque credential exchanged for new access tokens.
type RefreshToken struct {
	Token     string
	UserID    UserID
	ExpiresAt time.Time
}

func (r RefreshToken) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}
