// Package storage defines the records persisted in BadgerDB.
// Timestamps are stored as Unix nanoseconds.
package storage

import "github.com/konarjg/chat-server/proto/wire"

type User struct {
	Id           int64
	Name         string
	PasswordHash string
	PublicKey    string
	CreatedAt    int64
}

func (m *User) MarshalWire() []byte {
	var e wire.Encoder
	e.Int64(1, m.Id)
	e.String(2, m.Name)
	e.String(3, m.PasswordHash)
	e.String(4, m.PublicKey)
	e.Int64(5, m.CreatedAt)
	return e.Encoded()
}

func (m *User) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.Id = f.Int64()
		case 2:
			m.Name = f.String()
		case 3:
			m.PasswordHash = f.String()
		case 4:
			m.PublicKey = f.String()
		case 5:
			m.CreatedAt = f.Int64()
		}
		return nil
	})
}

type Chat struct {
	Id          int64
	SenderId    int64
	ReceiverId  int64
	SenderKey   []byte
	ReceiverKey []byte
	CreatedAt   int64
}

func (m *Chat) MarshalWire() []byte {
	var e wire.Encoder
	e.Int64(1, m.Id)
	e.Int64(2, m.SenderId)
	e.Int64(3, m.ReceiverId)
	e.Bytes(4, m.SenderKey)
	e.Bytes(5, m.ReceiverKey)
	e.Int64(6, m.CreatedAt)
	return e.Encoded()
}

func (m *Chat) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.Id = f.Int64()
		case 2:
			m.SenderId = f.Int64()
		case 3:
			m.ReceiverId = f.Int64()
		case 4:
			m.SenderKey = f.Bytes()
		case 5:
			m.ReceiverKey = f.Bytes()
		case 6:
			m.CreatedAt = f.Int64()
		}
		return nil
	})
}

type Message struct {
	Id         string
	ChatId     int64
	SenderId   int64
	Sequence   uint64
	Ciphertext []byte
	At         int64
}

func (m *Message) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.Id)
	e.Int64(2, m.ChatId)
	e.Int64(3, m.SenderId)
	e.Uint64(4, m.Sequence)
	e.Bytes(5, m.Ciphertext)
	e.Int64(6, m.At)
	return e.Encoded()
}

func (m *Message) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.Id = f.String()
		case 2:
			m.ChatId = f.Int64()
		case 3:
			m.SenderId = f.Int64()
		case 4:
			m.Sequence = f.Uint64()
		case 5:
			m.Ciphertext = f.Bytes()
		case 6:
			m.At = f.Int64()
		}
		return nil
	})
}

type RefreshToken struct {
	Token     string
	UserId    int64
	ExpiresAt int64
}

func (m *RefreshToken) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.Token)
	e.Int64(2, m.UserId)
	e.Int64(3, m.ExpiresAt)
	return e.Encoded()
}

func (m *RefreshToken) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.Token = f.String()
		case 2:
			m.UserId = f.Int64()
		case 3:
			m.ExpiresAt = f.Int64()
		}
		return nil
	})
}
