package repositories

import (
	"log/slog"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func sequences(messages []domain.Message) []uint64 {
	return lo.Map(messages, func(m domain.Message, _ int) uint64 { return m.Sequence })
}

func TestMessageRepository_Append_AssignsSequence(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	users := newUsers(t, db, "alice", "bob")
	chat := newChat(t, db, users[0].ID, users[1].ID)
	repo := NewMessageRepository(db, slog.Default())

	at := time.Now().UTC()
	first, err := repo.Append(chat.ID, users[0].ID, []byte("hi"), at)
	req.NoError(err)
	second, err := repo.Append(chat.ID, users[1].ID, []byte("hello"), at.Add(time.Second))
	req.NoError(err)

	req.Equal(uint64(1), first.Sequence)
	req.Equal(uint64(2), second.Sequence)
	req.NotEqual(first.ID, second.ID)

	all, err := repo.ListSince(chat.ID, 0, 0)
	req.NoError(err)
	req.Equal([]domain.Message{first, second}, all)
}

func TestMessageRepository_Append_UnknownChat(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	repo := NewMessageRepository(db, slog.Default())

	_, err := repo.Append(1, 1, []byte("hi"), time.Now())
	req.ErrorIs(err, errors.ErrChatNotFound)

	users := newUsers(t, db, "alice", "bob")
	chat := newChat(t, db, users[0].ID, users[1].ID)
	req.Equal(domain.ChatID(1), chat.ID)
	msg, err := repo.Append(chat.ID, users[0].ID, []byte("hi"), time.Now())
	req.NoError(err)
	req.Equal(uint64(1), msg.Sequence, "a failed append must not consume a sequence number")
}

func TestMessageRepository_ConcurrentAppends_GapFree(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	users := newUsers(t, db, "alice", "bob", "carol")
	chatAB := newChat(t, db, users[0].ID, users[1].ID)
	chatBC := newChat(t, db, users[1].ID, users[2].ID)
	repo := NewMessageRepository(db, slog.Default())

	const perWriter = 25
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = map[domain.ChatID][]uint64{}
	)
	for _, w := range []struct {
		chat   domain.ChatID
		sender domain.UserID
	}{
		{chatAB.ID, users[0].ID}, {chatAB.ID, users[1].ID},
		{chatBC.ID, users[1].ID}, {chatBC.ID, users[2].ID},
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				msg, err := repo.Append(w.chat, w.sender, []byte("x"), time.Now())
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				got[w.chat] = append(got[w.chat], msg.Sequence)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	want := lo.RangeFrom(uint64(1), 2*perWriter)
	for _, chat := range []domain.ChatID{chatAB.ID, chatBC.ID} {
		seqs := got[chat]
		sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
		req.Equal(want, seqs)

		stored, err := repo.ListSince(chat, 0, 0)
		req.NoError(err)
		req.Equal(want, sequences(stored))
	}
}

func TestMessageRepository_ResumesSequenceAfterRestart(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	users := newUsers(t, db, "alice", "bob")
	chat := newChat(t, db, users[0].ID, users[1].ID)

	first := NewMessageRepository(db, slog.Default())
	for i := 0; i < 3; i++ {
		_, err := first.Append(chat.ID, users[0].ID, []byte("x"), time.Now())
		req.NoError(err)
	}

	restarted := NewMessageRepository(db, slog.Default())
	msg, err := restarted.Append(chat.ID, users[1].ID, []byte("y"), time.Now())
	req.NoError(err)
	req.Equal(uint64(4), msg.Sequence)
}

func TestMessageRepository_ListSince(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	users := newUsers(t, db, "alice", "bob")
	chat := newChat(t, db, users[0].ID, users[1].ID)
	repo := NewMessageRepository(db, slog.Default())
	for i := 0; i < 5; i++ {
		_, err := repo.Append(chat.ID, users[0].ID, []byte{byte(i)}, time.Now())
		req.NoError(err)
	}

	since, err := repo.ListSince(chat.ID, 2, 0)
	req.NoError(err)
	req.Equal([]uint64{3, 4, 5}, sequences(since))

	batch, err := repo.ListSince(chat.ID, 0, 2)
	req.NoError(err)
	req.Equal([]uint64{1, 2}, sequences(batch))

	again, err := repo.ListSince(chat.ID, 0, 0)
	req.NoError(err)
	first, err := repo.ListSince(chat.ID, 0, 0)
	req.NoError(err)
	req.Equal(first, again, "reads must be repeatable")

	empty, err := repo.ListSince(chat.ID, 5, 0)
	req.NoError(err)
	req.Empty(empty)

	beyond, err := repo.ListSince(chat.ID, math.MaxUint64, 0)
	req.NoError(err)
	req.Empty(beyond)
}

func TestMessageRepository_EvictsIdleCounters(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	users := newUsers(t, db, "alice", "bob", "carol")
	chats := []domain.Chat{
		newChat(t, db, users[0].ID, users[1].ID),
		newChat(t, db, users[0].ID, users[2].ID),
		newChat(t, db, users[1].ID, users[2].ID),
	}
	repo := NewMessageRepository(db, slog.Default())
	repo.maxCached = 1

	for round := uint64(1); round <= 3; round++ {
		for _, chat := range chats {
			message, err := repo.Append(chat.ID, chat.SenderID, []byte("x"), time.Now())
			req.NoError(err)
			req.Equal(round, message.Sequence, "a reloaded counter continues the log")
		}
	}
	req.LessOrEqual(len(repo.chats), 1)

	for _, chat := range chats {
		all, err := repo.ListSince(chat.ID, 0, 0)
		req.NoError(err)
		req.Equal([]uint64{1, 2, 3}, sequences(all))
	}
}

func TestMessageRepository_History(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	users := newUsers(t, db, "alice", "bob")
	chat := newChat(t, db, users[0].ID, users[1].ID)
	repo := NewMessageRepository(db, slog.Default())
	for i := 0; i < 5; i++ {
		_, err := repo.Append(chat.ID, users[0].ID, []byte{byte(i)}, time.Now())
		req.NoError(err)
	}

	newest, err := repo.History(chat.ID, domain.Page{Size: 2})
	req.NoError(err)
	req.Equal([]uint64{5, 4}, sequences(newest))

	older, err := repo.History(chat.ID, domain.Page{Size: 2, LastID: lo.ToPtr(int64(4))})
	req.NoError(err)
	req.Equal([]uint64{3, 2}, sequences(older))

	oldest, err := repo.History(chat.ID, domain.Page{Size: 10, LastID: lo.ToPtr(int64(2))})
	req.NoError(err)
	req.Equal([]uint64{1}, sequences(oldest))
}
