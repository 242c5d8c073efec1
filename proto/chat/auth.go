package chat

import "github.com/konarjg/chat-server/proto/wire"

type RegisterRequest struct {
	Name      string
	Password  string
	PublicKey string
}

func (m *RegisterRequest) GetName() string {
	if m == nil {
		return ""
	}
	return m.Name
}

func (m *RegisterRequest) GetPassword() string {
	if m == nil {
		return ""
	}
	return m.Password
}

func (m *RegisterRequest) GetPublicKey() string {
	if m == nil {
		return ""
	}
	return m.PublicKey
}

func (m *RegisterRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.Name)
	e.String(2, m.Password)
	e.String(3, m.PublicKey)
	return e.Encoded()
}

func (m *RegisterRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.Name = f.String()
		case 2:
			m.Password = f.String()
		case 3:
			m.PublicKey = f.String()
		}
		return nil
	})
}

type LoginRequest struct {
	Name     string
	Password string
}

func (m *LoginRequest) GetName() string {
	if m == nil {
		return ""
	}
	return m.Name
}

func (m *LoginRequest) GetPassword() string {
	if m == nil {
		return ""
	}
	return m.Password
}

func (m *LoginRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.Name)
	e.String(2, m.Password)
	return e.Encoded()
}

func (m *LoginRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.Name = f.String()
		case 2:
			m.Password = f.String()
		}
		return nil
	})
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string
}

func (m *RefreshRequest) GetRefreshToken() string {
	if m == nil {
		return ""
	}
	return m.RefreshToken
}

func (m *RefreshRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.RefreshToken)
	return e.Encoded()
}

func (m *RefreshRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		if f.Num == 1 {
			m.RefreshToken = f.String()
		}
		return nil
	})
}

type LogoutRequest struct {
	RefreshToken string
}

func (m *LogoutRequest) GetRefreshToken() string {
	if m == nil {
		return ""
	}
	return m.RefreshToken
}

func (m *LogoutRequest) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.RefreshToken)
	return e.Encoded()
}

func (m *LogoutRequest) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		if f.Num == 1 {
			m.RefreshToken = f.String()
		}
		return nil
	})
}

type AuthResponse struct {
	AccessToken  string
	RefreshToken string
}

func (m *AuthResponse) GetAccessToken() string {
	if m == nil {
		return ""
	}
	return m.AccessToken
}

func (m *AuthResponse) GetRefreshToken() string {
	if m == nil {
		return ""
	}
	return m.RefreshToken
}

func (m *AuthResponse) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.AccessToken)
	e.String(2, m.RefreshToken)
	return e.Encoded()
}

func (m *AuthResponse) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		switch f.Num {
		case 1:
			m.AccessToken = f.String()
		case 2:
			m.RefreshToken = f.String()
		}
		return nil
	})
}

type LogoutResponse struct {
	Message string
}

func (m *LogoutResponse) MarshalWire() []byte {
	var e wire.Encoder
	e.String(1, m.Message)
	return e.Encoded()
}

func (m *LogoutResponse) UnmarshalWire(b []byte) error {
	return wire.Walk(b, func(f wire.Field) error {
		if f.Num == 1 {
			m.Message = f.String()
		}
		return nil
	})
}
