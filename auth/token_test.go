package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	req := require.New(t)
	m := NewTokenManager("secret-for-tests", "chat-server", "chat-clients", time.Minute)

	token, err := m.GenerateToken(domain.User{ID: 42, Name: "alice"})
	req.NoError(err)

	userID, err := m.Validate(token)
	req.NoError(err)
	req.Equal(domain.UserID(42), userID)

	claims, err := m.ParseToken(token)
	req.NoError(err)
	req.Equal("alice", claims.Name)
	req.NotEmpty(claims.ID)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret-for-tests", "chat-server", "chat-clients", time.Minute)
	valid, err := m.GenerateToken(domain.User{ID: 1, Name: "bob"})
	require.NoError(t, err)

	expired := NewTokenManager("secret-for-tests", "chat-server", "chat-clients", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expiredToken, err := expired.GenerateToken(domain.User{ID: 1, Name: "bob"})
	require.NoError(t, err)

	otherSecret := NewTokenManager("another-secret", "chat-server", "chat-clients", time.Minute)
	otherAudience := NewTokenManager("secret-for-tests", "chat-server", "someone-else", time.Minute)

	tests := []struct {
		name    string
		manager *TokenManager
		token   string
	}{
		{"empty", m, ""},
		{"malformed", m, "not.a.jwt"},
		{"expired", m, expiredToken},
		{"wrong secret", otherSecret, valid},
		{"wrong audience", otherAudience, valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := tt.manager.Validate(tt.token)
			req.ErrorIs(err, errors.ErrInvalidToken)
		})
	}
}

func TestNewRefreshToken(t *testing.T) {
	req := require.New(t)

	first, err := NewRefreshToken(7, time.Hour)
	req.NoError(err)
	second, err := NewRefreshToken(7, time.Hour)
	req.NoError(err)

	raw, err := base64.StdEncoding.DecodeString(first.Token)
	req.NoError(err)
	req.Len(raw, 64)
	req.NotEqual(first.Token, second.Token)
	req.Equal(domain.UserID(7), first.UserID)
	req.False(first.Expired(time.Now()))
	req.True(first.Expired(time.Now().Add(2 * time.Hour)))
}
