//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	pb "github.com/konarjg/chat-server/proto/storage"
)

type IUserRepository interface {
	CreateUser(name, passwordHash, publicKey string) (domain.User, error)
	GetUserByName(name string) (domain.User, error)
	GetUserByID(id domain.UserID) (domain.User, error)
	ListUsers(page domain.Page) ([]domain.User, error)
}

type UserRepository struct {
	db  *badger.DB
	ids *badger.Sequence
}

func NewUserRepository(db *badger.DB) (*UserRepository, error) {
	ids, err := db.GetSequence([]byte("seq:user"), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("user id sequence: %w", err)
	}
	return &UserRepository{db: db, ids: ids}, nil
}

// Close releases the unused part of the id lease.
func (u *UserRepository) Close() error {
	return u.ids.Release()
}

// CreateUser persists the user under a fresh id and reserves its name.
// Names are unique: a taken name yields ErrUserAlreadyExists.
func (u *UserRepository) CreateUser(name, passwordHash, publicKey string) (domain.User, error) {
	next, err := u.ids.Next()
	if err != nil {
		return domain.User{}, storageErr(err)
	}
	record := &pb.User{
		Id:           int64(next + 1),
		Name:         name,
		PasswordHash: passwordHash,
		PublicKey:    publicKey,
		CreatedAt:    time.Now().UTC().UnixNano(),
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		nameKey := userNameKey(name)
		if _, err := txn.Get(nameKey); err == nil {
			return errors.ErrUserAlreadyExists
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(nameKey, []byte(strconv.FormatInt(record.Id, 10))); err != nil {
			return err
		}
		return txn.Set(userKey(record.Id), record.MarshalWire())
	})
	if err != nil {
		return domain.User{}, storageErr(err)
	}
	return toDomainUser(record), nil
}

func (u *UserRepository) GetUserByName(name string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userNameKey(name))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("corrupted name index for %q: %w", name, err)
		}
		user, err = readUser(txn, id)
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, err
}

func (u *UserRepository) GetUserByID(id domain.UserID) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = readUser(txn, int64(id))
		return err
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	return user, err
}

// ListUsers returns users by descending id, starting strictly below page.LastID.
func (u *UserRepository) ListUsers(page domain.Page) ([]domain.User, error) {
	prefix := []byte(userIDPrefix)
	seek, ok := seekBefore(prefix, page.LastID)
	if !ok {
		return nil, nil
	}
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if page.Size > 0 && len(users) == page.Size {
				break
			}
			var record pb.User
			if err := it.Item().Value(record.UnmarshalWire); err != nil {
				return err
			}
			users = append(users, toDomainUser(&record))
		}
		return nil
	})
	return users, err
}

func readUser(txn *badger.Txn, id int64) (domain.User, error) {
	item, err := txn.Get(userKey(id))
	if err != nil {
		return domain.User{}, err
	}
	var record pb.User
	if err := item.Value(record.UnmarshalWire); err != nil {
		return domain.User{}, err
	}
	return toDomainUser(&record), nil
}

func userExists(txn *badger.Txn, id domain.UserID) error {
	_, err := txn.Get(userKey(int64(id)))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %d", errors.ErrUserNotFound, id)
	}
	return err
}

func toDomainUser(record *pb.User) domain.User {
	return domain.User{
		ID:           domain.UserID(record.Id),
		Name:         record.Name,
		PasswordHash: record.PasswordHash,
		PublicKey:    record.PublicKey,
		CreatedAt:    time.Unix(0, record.CreatedAt).UTC(),
	}
}
