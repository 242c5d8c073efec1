package auth

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/konarjg/chat-server/domain"
)

const refreshTokenSize = 64

// NewRefreshToken draws 64 random bytes and encodes them as standard base64.
func NewRefreshToken(user domain.UserID, ttl time.Duration) (domain.RefreshToken, error) {
	buf := make([]byte, refreshTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return domain.RefreshToken{}, err
	}
	return domain.RefreshToken{
		Token:     base64.StdEncoding.EncodeToString(buf),
		UserID:    user,
		ExpiresAt: time.Now().Add(ttl).UTC(),
	}, nil
}
