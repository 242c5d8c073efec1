//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	pb "github.com/konarjg/chat-server/proto/storage"
)

// IChatRepository owns chat records and the membership index.
type IChatRepository interface {
	CreateChat(cmd domain.CreateChatCommand) (domain.Chat, error)
	GetChat(id domain.ChatID) (domain.Chat, error)
	ListChats(user domain.UserID, page domain.Page) ([]domain.Chat, error)
	ChatsOf(user domain.UserID) ([]domain.Chat, error)
}

type ChatRepository struct {
	db  *badger.DB
	ids *badger.Sequence
}

func NewChatRepository(db *badger.DB) (*ChatRepository, error) {
	ids, err := db.GetSequence([]byte("seq:chat"), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("chat id sequence: %w", err)
	}
	return &ChatRepository{db: db, ids: ids}, nil
}

func (c *ChatRepository) Close() error {
	return c.ids.Release()
}

// CreateChat stores the chat and both membership entries in a single
// transaction. Repeated calls for the same pair create distinct chats.
func (c *ChatRepository) CreateChat(cmd domain.CreateChatCommand) (domain.Chat, error) {
	if cmd.SenderID == cmd.ReceiverID {
		return domain.Chat{}, errors.ErrSelfChat
	}
	next, err := c.ids.Next()
	if err != nil {
		return domain.Chat{}, storageErr(err)
	}
	record := &pb.Chat{
		Id:          int64(next + 1),
		SenderId:    int64(cmd.SenderID),
		ReceiverId:  int64(cmd.ReceiverID),
		SenderKey:   cmd.SenderKey,
		ReceiverKey: cmd.ReceiverKey,
		CreatedAt:   time.Now().UTC().UnixNano(),
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		for _, user := range []domain.UserID{cmd.SenderID, cmd.ReceiverID} {
			if err := userExists(txn, user); err != nil {
				return err
			}
		}
		if err := txn.Set(chatKey(record.Id), record.MarshalWire()); err != nil {
			return err
		}
		if err := txn.Set(memberKey(record.SenderId, record.Id), nil); err != nil {
			return err
		}
		return txn.Set(memberKey(record.ReceiverId, record.Id), nil)
	})
	if err != nil {
		return domain.Chat{}, storageErr(err)
	}
	return toDomainChat(record), nil
}

func (c *ChatRepository) GetChat(id domain.ChatID) (domain.Chat, error) {
	var chat domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		var err error
		chat, err = readChat(txn, int64(id))
		return err
	})
	return chat, err
}

// ListChats returns the user's chats by descending id, strictly below page.LastID.
func (c *ChatRepository) ListChats(user domain.UserID, page domain.Page) ([]domain.Chat, error) {
	prefix := memberPrefixOf(int64(user))
	seek, ok := seekBefore(prefix, page.LastID)
	if !ok {
		return nil, nil
	}
	var chats []domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if page.Size > 0 && len(chats) == page.Size {
				break
			}
			chat, err := memberChat(txn, it.Item(), prefix)
			if err != nil {
				return err
			}
			chats = append(chats, chat)
		}
		return nil
	})
	return chats, err
}

// ChatsOf returns every chat the user participates in, oldest first.
func (c *ChatRepository) ChatsOf(user domain.UserID) ([]domain.Chat, error) {
	prefix := memberPrefixOf(int64(user))
	var chats []domain.Chat
	err := c.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			chat, err := memberChat(txn, it.Item(), prefix)
			if err != nil {
				return err
			}
			chats = append(chats, chat)
		}
		return nil
	})
	return chats, err
}

func memberChat(txn *badger.Txn, item *badger.Item, prefix []byte) (domain.Chat, error) {
	id, err := suffixID(item.Key(), prefix)
	if err != nil {
		return domain.Chat{}, fmt.Errorf("corrupted membership key %q: %w", item.Key(), err)
	}
	return readChat(txn, int64(id))
}

func readChat(txn *badger.Txn, id int64) (domain.Chat, error) {
	item, err := txn.Get(chatKey(id))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.Chat{}, fmt.Errorf("%w: %d", errors.ErrChatNotFound, id)
	}
	if err != nil {
		return domain.Chat{}, err
	}
	var record pb.Chat
	if err := item.Value(record.UnmarshalWire); err != nil {
		return domain.Chat{}, err
	}
	return toDomainChat(&record), nil
}

func toDomainChat(record *pb.Chat) domain.Chat {
	return domain.Chat{
		ID:          domain.ChatID(record.Id),
		SenderID:    domain.UserID(record.SenderId),
		ReceiverID:  domain.UserID(record.ReceiverId),
		SenderKey:   record.SenderKey,
		ReceiverKey: record.ReceiverKey,
		CreatedAt:   time.Unix(0, record.CreatedAt).UTC(),
	}
}
