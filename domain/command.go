package domain

import "time"

type SendMessageCommand struct {
	ChatID          ChatID
	SenderID        UserID
	Ciphertext      []byte
	ClientMessageID string
	SentAt          time.Time
}

type CreateChatCommand struct {
	SenderID    UserID
	ReceiverID  UserID
	SenderKey   []byte
	ReceiverKey []byte
}

// Page selects a slice of a newest-first listing. LastID is exclusive.
type Page struct {
	Size   int
	LastID *int64
}
