// Package domain contains core concepts of the chat system.
// This file defines Message records and related rules.
// Messages are immutable once appended to a chat's log.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a durable entry of a chat's log. Ciphertext is opaque to the
// server; Sequence is its position in the chat's total order, starting at 1.
type Message struct {
	ID         uuid.UUID
	ChatID     ChatID
	SenderID   UserID
	Sequence   uint64
	Ciphertext []byte
	At         time.Time
}
