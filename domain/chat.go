package domain

import "time"

type ChatID int64

// Chat is a two-party conversation. Each side holds its own wrapped copy of
// the chat's content key; the blobs are stored and returned untouched.
type Chat struct {
	ID          ChatID
	SenderID    UserID
	ReceiverID  UserID
	SenderKey   []byte
	ReceiverKey []byte
	CreatedAt   time.Time
}

func (c Chat) HasParticipant(user UserID) bool {
	return c.SenderID == user || c.ReceiverID == user
}

// Peer returns the other participant. ok is false when user is not part of the chat.
func (c Chat) Peer(user UserID) (UserID, bool) {
	switch user {
	case c.SenderID:
		return c.ReceiverID, true
	case c.ReceiverID:
		return c.SenderID, true
	}
	return 0, false
}

func (c Chat) Participants() []UserID {
	return []UserID{c.SenderID, c.ReceiverID}
}
