package chat

import "github.com/konarjg/chat-server/proto/wire"

// ClientToServerMessage is an inbound ChatStream frame. Exactly one field is set.
type ClientToServerMessage struct {
	SendMessage *SendMessageRequest
	Auth        *AuthenticateRequest
}

func (m *ClientToServerMessage) GetSendMessage() *SendMessageRequest {
	if m == nil {
		return nil
	}
	return m.SendMessage
}

func (m *ClientToServerMessage) GetAuth() *AuthenticateRequest {
	if m == nil {
		return nil
	}
	return m.Auth
}

func (m *ClientToServerMessage) MarshalWire() []byte {
	var e wire.Encoder
	if m.SendMessage != nil {
		e.Message(1, m.SendMessage)
	}
	if m.Auth != nil {
		e.Message(2, m.Auth)
	}
	return e.Encoded()
}

func (m *ClientToServerMessage) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.SendMessage, m.Auth = &SendMessageRequest{}, nil
			return f.Message(m.SendMessage)
		case 2:
			m.Auth, m.SendMessage = &AuthenticateRequest{}, nil
			return f.Message(m.Auth)
		}
		return nil
	})
}

type SendMessageRequest struct {
	ChatId              int64
	AesEncryptedContent []byte
	// ClientMessageId is echoed back in the matching SendResult.
	ClientMessageId string
}

func (m *SendMessageRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.Int64(1, m.ChatId)
	e.Bytes(2, m.AesEncryptedContent)
	e.String(3, m.ClientMessageId)
	return e.Encoded()
}

func (m *SendMessageRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.ChatId = f.Int64()
		case 2:
			m.AesEncryptedContent = f.Bytes()
		case 3:
			m.ClientMessageId = f.String()
		}
		return nil
	})
}

// AuthenticateRequest carries the access token when the client could not set
// the authorization metadata. It must be the first frame of the stream.
type AuthenticateRequest struct {
	AccessToken string
}

func (m *AuthenticateRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.AccessToken)
	return e.Encoded()
}

func (m *AuthenticateRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		if f.Num == 1 {
			m.AccessToken = f.String()
		}
		return nil
	})
}

// ServerToClientMessage is an outbound ChatStream frame. Exactly one field is set.
type ServerToClientMessage struct {
	NewMessage *Message
	SendResult *SendResult
}

func (m *ServerToClientMessage) GetNewMessage() *Message {
	if m == nil {
		return nil
	}
	return m.NewMessage
}

func (m *ServerToClientMessage) GetSendResult() *SendResult {
	if m == nil {
		return nil
	}
	return m.SendResult
}

func (m *ServerToClientMessage) MarshalWire() []byte {
	var e wire.Encoder
	if m.NewMessage != nil {
		e.Message(1, m.NewMessage)
	}
	if m.SendResult != nil {
		e.Message(2, m.SendResult)
	}
	return e.Encoded()
}

func (m *ServerToClientMessage) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.NewMessage, m.SendResult = &Message{}, nil
			return f.Message(m.NewMessage)
		case 2:
			m.SendResult, m.NewMessage = &SendResult{}, nil
			return f.Message(m.SendResult)
		}
		return nil
	})
}

// SendResult acknowledges one SendMessageRequest. Code is a gRPC status code,
// zero meaning the message is durable under MessageId/SequenceNo.
type SendResult struct {
	ClientMessageId string
	ChatId          int64
	MessageId       string
	SequenceNo      uint64
	Code            uint32
	ErrorMessage    string
}

func (m *SendResult) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.ClientMessageId)
	e.Int64(2, m.ChatId)
	e.String(3, m.MessageId)
	e.Uint64(4, m.SequenceNo)
	e.Uint64(5, uint64(m.Code))
	e.String(6, m.ErrorMessage)
	return e.Encoded()
}

func (m *SendResult) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.ClientMessageId = f.String()
		case 2:
			m.ChatId = f.Int64()
		case 3:
			m.MessageId = f.String()
		case 4:
			m.SequenceNo = f.Uint64()
		case 5:
			m.Code = uint32(f.Uint64())
		case 6:
			m.ErrorMessage = f.String()
		}
		return nil
	})
}
