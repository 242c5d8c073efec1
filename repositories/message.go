//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/konarjg/chat-server/domain"
	pb "github.com/konarjg/chat-server/proto/storage"
)

// IMessageRepository is the append-only message log. It is the only source of
// sequence numbers.
type IMessageRepository interface {
	Append(chat domain.ChatID, sender domain.UserID, ciphertext []byte, at time.Time) (domain.Message, error)
	ListSince(chat domain.ChatID, after uint64, limit int) ([]domain.Message, error)
	History(chat domain.ChatID, page domain.Page) ([]domain.Message, error)
}

// defaultCachedChats bounds how many idle chat counters stay in memory.
const defaultCachedChats = 4096

// MessageRepository serializes appends per chat. Unrelated chats never share a lock.
type MessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	mu    sync.Mutex
	chats map[domain.ChatID]*chatLog
	// maxCached is the map size above which idle counters are dropped.
	maxCached int
}

// chatLog caches the next sequence number of one chat. refs is guarded by
// MessageRepository.mu, the rest by chatLog.mu.
type chatLog struct {
	refs   int
	mu     sync.Mutex
	loaded bool
	next   uint64
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) *MessageRepository {
	return &MessageRepository{
		db:        db,
		log:       log,
		chats:     make(map[domain.ChatID]*chatLog),
		maxCached: defaultCachedChats,
	}
}

func (m *MessageRepository) acquire(chat domain.ChatID) *chatLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.chats[chat]
	if !ok {
		l = &chatLog{}
		m.chats[chat] = l
	}
	l.refs++
	return l
}

// release drops an idle counter once the cache is over its bound. The next
// append to that chat reloads the position from the log.
func (m *MessageRepository) release(chat domain.ChatID, l *chatLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 && len(m.chats) > m.maxCached {
		delete(m.chats, chat)
	}
}

// Append stores the message under the chat's next sequence number.
// The key is "msg:{chat}:{seq}" with both parts zero padded, so a prefix scan
// returns the chat's messages in sequence order.
// The counter only moves once the transaction has committed: a failed append
// leaves neither a record nor a hole.
func (m *MessageRepository) Append(chat domain.ChatID, sender domain.UserID, ciphertext []byte, at time.Time) (domain.Message, error) {
	l := m.acquire(chat)
	defer m.release(chat, l)
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded {
		last, err := m.lastSequence(chat)
		if err != nil {
			return domain.Message{}, storageErr(err)
		}
		l.next, l.loaded = last+1, true
	}

	record := &pb.Message{
		Id:         uuid.NewString(),
		ChatId:     int64(chat),
		SenderId:   int64(sender),
		Sequence:   l.next,
		Ciphertext: ciphertext,
		At:         at.UTC().UnixNano(),
	}
	err := m.db.Update(func(txn *badger.Txn) error {
		if _, err := readChat(txn, int64(chat)); err != nil {
			return err
		}
		return txn.Set(messageKey(record.ChatId, record.Sequence), record.MarshalWire())
	})
	if err != nil {
		return domain.Message{}, storageErr(err)
	}
	l.next++
	m.log.Debug("Message appended", "chat_id", chat, "sequence", record.Sequence)
	return toDomainMessage(record)
}

func (m *MessageRepository) lastSequence(chat domain.ChatID) (uint64, error) {
	prefix := messagePrefixOf(int64(chat))
	var last uint64
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		it.Seek(append(append([]byte{}, prefix...), maxPadded...))
		if !it.ValidForPrefix(prefix) {
			return nil
		}
		seq, err := suffixID(it.Item().Key(), prefix)
		if err != nil {
			return fmt.Errorf("corrupted message key %q: %w", it.Item().Key(), err)
		}
		last = seq
		return nil
	})
	return last, err
}

// ListSince returns up to limit messages with a sequence strictly greater than
// after, in sequence order. A limit <= 0 returns everything.
func (m *MessageRepository) ListSince(chat domain.ChatID, after uint64, limit int) ([]domain.Message, error) {
	if after == math.MaxUint64 {
		return nil, nil
	}
	prefix := messagePrefixOf(int64(chat))
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(messageKey(int64(chat), after+1)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				break
			}
			message, err := decodeMessage(it.Item())
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

// History pages the chat newest first. page.LastID is an exclusive sequence number.
func (m *MessageRepository) History(chat domain.ChatID, page domain.Page) ([]domain.Message, error) {
	prefix := messagePrefixOf(int64(chat))
	seek, ok := seekBefore(prefix, page.LastID)
	if !ok {
		return nil, nil
	}
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if page.Size > 0 && len(messages) == page.Size {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", page.Size))
				break
			}
			message, err := decodeMessage(it.Item())
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

func decodeMessage(item *badger.Item) (domain.Message, error) {
	var record pb.Message
	if err := item.Value(record.UnmarshalWire); err != nil {
		return domain.Message{}, err
	}
	return toDomainMessage(&record)
}

func toDomainMessage(record *pb.Message) (domain.Message, error) {
	parsedID, err := uuid.Parse(record.Id)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:         parsedID,
		ChatID:     domain.ChatID(record.ChatId),
		SenderID:   domain.UserID(record.SenderId),
		Sequence:   record.Sequence,
		Ciphertext: record.Ciphertext,
		At:         time.Unix(0, record.At).UTC(),
	}, nil
}
