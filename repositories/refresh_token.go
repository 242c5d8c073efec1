//go:generate go run go.uber.org/mock/mockgen -source=refresh_token.go -destination=../mocks/mock_refresh_token_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	pb "github.com/konarjg/chat-server/proto/storage"
)

type IRefreshTokenRepository interface {
	StoreRefreshToken(token domain.RefreshToken) error
	// RevokeRefreshToken deletes the token and returns it. Unknown or expired
	// tokens yield ErrInvalidRefreshToken.
	RevokeRefreshToken(token string, now time.Time) (domain.RefreshToken, error)
	DeleteExpired(now time.Time) (int, error)
}

type RefreshTokenRepository struct {
	db *badger.DB
}

func NewRefreshTokenRepository(db *badger.DB) RefreshTokenRepository {
	return RefreshTokenRepository{db: db}
}

func (r RefreshTokenRepository) StoreRefreshToken(token domain.RefreshToken) error {
	record := &pb.RefreshToken{
		Token:     token.Token,
		UserId:    int64(token.UserID),
		ExpiresAt: token.ExpiresAt.UTC().UnixNano(),
	}
	return storageErr(r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(refreshKey(token.Token), record.MarshalWire())
	}))
}

func (r RefreshTokenRepository) RevokeRefreshToken(token string, now time.Time) (domain.RefreshToken, error) {
	var revoked domain.RefreshToken
	err := r.db.Update(func(txn *badger.Txn) error {
		key := refreshKey(token)
		item, err := txn.Get(key)
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrInvalidRefreshToken
		}
		if err != nil {
			return err
		}
		var record pb.RefreshToken
		if err := item.Value(record.UnmarshalWire); err != nil {
			return err
		}
		revoked = toDomainRefreshToken(&record)
		if err := txn.Delete(key); err != nil {
			return err
		}
		if revoked.Expired(now) {
			return errors.ErrInvalidRefreshToken
		}
		return nil
	})
	if err != nil {
		return domain.RefreshToken{}, storageErr(err)
	}
	return revoked, nil
}

// DeleteExpired purges tokens whose expiry is at or before now.
func (r RefreshTokenRepository) DeleteExpired(now time.Time) (int, error) {
	prefix := []byte(refreshPrefix)
	var expired [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record pb.RefreshToken
			if err := it.Item().Value(record.UnmarshalWire); err != nil {
				return err
			}
			if toDomainRefreshToken(&record).Expired(now) {
				expired = append(expired, it.Item().KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil || len(expired) == 0 {
		return 0, err
	}

	wb := r.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range expired {
		if err := wb.Delete(key); err != nil {
			return 0, storageErr(err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, storageErr(err)
	}
	return len(expired), nil
}

func toDomainRefreshToken(record *pb.RefreshToken) domain.RefreshToken {
	return domain.RefreshToken{
		Token:     record.Token,
		UserID:    domain.UserID(record.UserId),
		ExpiresAt: time.Unix(0, record.ExpiresAt).UTC(),
	}
}
