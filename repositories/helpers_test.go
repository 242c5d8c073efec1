package repositories

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/konarjg/chat-server/domain"
	"github.com/stretchr/testify/require"
)

func openDB(t testing.TB) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newUsers(t testing.TB, db *badger.DB, names ...string) []domain.User {
	t.Helper()
	repo, err := NewUserRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	users := make([]domain.User, 0, len(names))
	for _, name := range names {
		user, err := repo.CreateUser(name, "hash", "pk-"+name)
		require.NoError(t, err)
		users = append(users, user)
	}
	return users
}

func newChat(t testing.TB, db *badger.DB, sender, receiver domain.UserID) domain.Chat {
	t.Helper()
	repo, err := NewChatRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	chat, err := repo.CreateChat(domain.CreateChatCommand{
		SenderID:    sender,
		ReceiverID:  receiver,
		SenderKey:   []byte("sender-key"),
		ReceiverKey: []byte("receiver-key"),
	})
	require.NoError(t, err)
	return chat
}
