package chat

import (
	"time"

	"github.com/konarjg/chat-server/proto/wire"
)

type User struct {
	Id        int64
	Name      string
	PublicKey string
}

func (m *User) MarshalWire() []byte {
	var e wire.Encoder
	e.Int64(1, m.Id)
	e.String(2, m.Name)
	e.String(3, m.PublicKey)
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
			m.PublicKey = f.String()
		}
		return nil
	})
}

// GetUsersRequest pages users by descending id. LastId is exclusive.
type GetUsersRequest struct {
	PageSize int32
	LastId   *int64
}

func (m *GetUsersRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.Int64(1, int64(m.PageSize))
	e.OptionalInt64(2, m.LastId)
	return e.Encoded()
}

func (m *GetUsersRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.PageSize = f.Int32()
		case 2:
			v := f.Int64()
			m.LastId = &v
		}
		return nil
	})
}

type GetUsersResponse struct {
	Users []*User
}

func (m *GetUsersResponse) MarshalWire() []byte {
	var e wire.Encoder
	for _, u := range m.Users {
		e.Message(1, u)
	}
	return e.Encoded()
}

func (m *GetUsersResponse) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		if f.Num != 1 {
			return nil
		}
		u := &User{}
		if err := f.Message(u); err != nil {
			return err
		}
		m.Users = append(m.Users, u)
		return nil
	})
}

type CreateChatRequest struct {
	ReceiverId              int64
	SenderEncryptedAesKey   []byte
	ReceiverEncryptedAesKey []byte
}

func (m *CreateChatRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.Int64(1, m.ReceiverId)
	e.Bytes(2, m.SenderEncryptedAesKey)
	e.Bytes(3, m.ReceiverEncryptedAesKey)
	return e.Encoded()
}

func (m *CreateChatRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.ReceiverId = f.Int64()
		case 2:
			m.SenderEncryptedAesKey = f.Bytes()
		case 3:
			m.ReceiverEncryptedAesKey = f.Bytes()
		}
		return nil
	})
}

type Chat struct {
	Id                      int64
	SenderId                int64
	ReceiverId              int64
	SenderEncryptedAesKey   []byte
	ReceiverEncryptedAesKey []byte
}

func (m *Chat) MarshalWire() []byte {
	var e wire.Encoder
	e.Int64(1, m.Id)
	e.Int64(2, m.SenderId)
	e.Int64(3, m.ReceiverId)
	e.Bytes(4, m.SenderEncryptedAesKey)
	e.Bytes(5, m.ReceiverEncryptedAesKey)
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
			m.SenderEncryptedAesKey = f.Bytes()
		case 5:
			m.ReceiverEncryptedAesKey = f.Bytes()
		}
		return nil
	})
}

type GetChatsRequest struct {
	PageSize int32
	LastId   *int64
}

func (m *GetChatsRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.Int64(1, int64(m.PageSize))
	e.OptionalInt64(2, m.LastId)
	return e.Encoded()
}

func (m *GetChatsRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.PageSize = f.Int32()
		case 2:
			v := f.Int64()
			m.LastId = &v
		}
		return nil
	})
}

type GetChatsResponse struct {
	Chats []*Chat
}

func (m *GetChatsResponse) MarshalWire() []byte {
	var e wire.Encoder
	for _, c := range m.Chats {
		e.Message(1, c)
	}
	return e.Encoded()
}

func (m *GetChatsResponse) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		if f.Num != 1 {
			return nil
		}
		c := &Chat{}
		if err := f.Message(c); err != nil {
			return err
		}
		m.Chats = append(m.Chats, c)
		return nil
	})
}

// Message is a stored chat message as seen by clients.
type Message struct {
	Id                  string
	ChatId              int64
	SenderId            int64
	AesEncryptedContent []byte
	SequenceNo          uint64
	SentAt              time.Time
}

func (m *Message) GetAesEncryptedContent() []byte {
	if m == nil {
		return nil
	}
	return m.AesEncryptedContent
}

func (m *Message) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.Id)
	e.Int64(2, m.ChatId)
	e.Int64(3, m.SenderId)
	e.Bytes(4, m.AesEncryptedContent)
	e.Uint64(5, m.SequenceNo)
	e.Time(6, m.SentAt)
	return e.Encoded()
}

func (m *Message) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		var err error
		switch f.Num {
		case 1:
			m.Id = f.String()
		case 2:
			m.ChatId = f.Int64()
		case 3:
			m.SenderId = f.Int64()
		case 4:
			m.AesEncryptedContent = f.Bytes()
		case 5:
			m.SequenceNo = f.Uint64()
		case 6:
			m.SentAt, err = f.Time()
		}
		return err
	})
}

// GetMessageHistoryRequest pages a chat's messages newest first.
// LastId is an exclusive sequence number cursor.
type GetMessageHistoryRequest struct {
	ChatId   int64
	PageSize int32
	LastId   *int64
}

func (m *GetMessageHistoryRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.Int64(1, m.ChatId)
	e.Int64(2, int64(m.PageSize))
	e.OptionalInt64(3, m.LastId)
	return e.Encoded()
}

func (m *GetMessageHistoryRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.ChatId = f.Int64()
		case 2:
			m.PageSize = f.Int32()
		case 3:
			v := f.Int64()
			m.LastId = &v
		}
		return nil
	})
}

type GetMessageHistoryResponse struct {
	Messages []*Message
}

func (m *GetMessageHistoryResponse) MarshalWire() []byte {
	var e wire.Encoder
	for _, msg := range m.Messages {
		e.Message(1, msg)
	}
	return e.Encoded()
}

func (m *GetMessageHistoryResponse) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		if f.Num != 1 {
			return nil
		}
		msg := &Message{}
		if err := f.Message(msg); err != nil {
			return err
		}
		m.Messages = append(m.Messages, msg)
		return nil
	})
}
