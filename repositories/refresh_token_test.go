package repositories

import (
	"testing"
	"time"

	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenRepository_RevokeOnce(t *testing.T) {
	req := require.New(t)
	repo := NewRefreshTokenRepository(openDB(t))
	now := time.Now().UTC()
	token := domain.RefreshToken{Token: "abc+/=", UserID: 3, ExpiresAt: now.Add(time.Hour)}

	req.NoError(repo.StoreRefreshToken(token))

	revoked, err := repo.RevokeRefreshToken(token.Token, now)
	req.NoError(err)
	req.Equal(domain.UserID(3), revoked.UserID)

	_, err = repo.RevokeRefreshToken(token.Token, now)
	req.ErrorIs(err, errors.ErrInvalidRefreshToken)

	_, err = repo.RevokeRefreshToken("unknown", now)
	req.ErrorIs(err, errors.ErrInvalidRefreshToken)
}

func TestRefreshTokenRepository_Expired(t *testing.T) {
	req := require.New(t)
	repo := NewRefreshTokenRepository(openDB(t))
	now := time.Now().UTC()

	req.NoError(repo.StoreRefreshToken(domain.RefreshToken{Token: "old", UserID: 1, ExpiresAt: now.Add(-time.Minute)}))
	req.NoError(repo.StoreRefreshToken(domain.RefreshToken{Token: "older", UserID: 1, ExpiresAt: now.Add(-time.Hour)}))
	req.NoError(repo.StoreRefreshToken(domain.RefreshToken{Token: "fresh", UserID: 1, ExpiresAt: now.Add(time.Hour)}))

	_, err := repo.RevokeRefreshToken("old", now)
	req.ErrorIs(err, errors.ErrInvalidRefreshToken)

	deleted, err := repo.DeleteExpired(now)
	req.NoError(err)
	req.Equal(2, deleted)

	deleted, err = repo.DeleteExpired(now)
	req.NoError(err)
	req.Zero(deleted)

	_, err = repo.RevokeRefreshToken("fresh", now)
	req.NoError(err)
}
