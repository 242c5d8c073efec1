//go:generate go run go.uber.org/mock/mockgen -source=cursor.go -destination=../mocks/mock_cursor_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/konarjg/chat-server/domain"
)

// ICursorRepository remembers, per user and chat, the last sequence pushed to the user.
type ICursorRepository interface {
	LoadCursors(user domain.UserID) (domain.Cursors, error)
	AdvanceCursor(user domain.UserID, chat domain.ChatID, seq uint64) error
}

type CursorRepository struct {
	db *badger.DB
}

func NewCursorRepository(db *badger.DB) CursorRepository {
	return CursorRepository{db: db}
}

func (c CursorRepository) LoadCursors(user domain.UserID) (domain.Cursors, error) {
	prefix := cursorPrefixOf(int64(user))
	cursors := domain.Cursors{}
	err := c.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			chat, err := suffixID(item.Key(), prefix)
			if err != nil {
				return fmt.Errorf("corrupted cursor key %q: %w", item.Key(), err)
			}
			seq, err := readSequence(item)
			if err != nil {
				return err
			}
			cursors[domain.ChatID(chat)] = seq
		}
		return nil
	})
	return cursors, err
}

// AdvanceCursor moves the cursor forward. Lower values are ignored so that a
// superseded connection finishing late never rewinds its successor.
func (c CursorRepository) AdvanceCursor(user domain.UserID, chat domain.ChatID, seq uint64) error {
	key := cursorKey(int64(user), int64(chat))
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = c.db.Update(func(txn *badger.Txn) error {
			item, err := txn.Get(key)
			switch {
			case err == nil:
				current, err := readSequence(item)
				if err != nil {
					return err
				}
				if current >= seq {
					return nil
				}
			case !stderrors.Is(err, badger.ErrKeyNotFound):
				return err
			}
			return txn.Set(key, []byte(strconv.FormatUint(seq, 10)))
		})
		if !stderrors.Is(err, badger.ErrConflict) {
			break
		}
	}
	return storageErr(err)
}

func readSequence(item *badger.Item) (uint64, error) {
	var seq uint64
	err := item.Value(func(val []byte) error {
		var err error
		seq, err = strconv.ParseUint(string(val), 10, 64)
		return err
	})
	return seq, err
}
