package repositories

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/konarjg/chat-server/domain"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_MessageLog_Performance(t *testing.T) {
	if testing.Short() {
		t.Skip("performance test skipped in short mode")
	}
	req := require.New(t)
	db := openDB(t)
	repo := NewMessageRepository(db, slog.New(slog.DiscardHandler))
	users := newUsers(t, db, "alice", "bob")
	chats := lo.Times(20, func(int) domain.Chat { return newChat(t, db, users[0].ID, users[1].ID) })

	// --- Phase 1: concurrent appends spread over every chat ---
	const perChat = 500
	var appended atomic.Int64
	start := time.Now()
	var wg sync.WaitGroup
	for _, chat := range chats {
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perChat/4; i++ {
					_, err := repo.Append(chat.ID, users[i%2].ID, []byte("opaque ciphertext payload"), time.Now())
					if err == nil {
						appended.Add(1)
					}
				}
			}()
		}
	}
	wg.Wait()
	elapsed := time.Since(start)
	t.Logf("appended %d messages in %v (%.0f msg/s)", appended.Load(), elapsed, float64(appended.Load())/elapsed.Seconds())
	req.Equal(int64(len(chats)*perChat), appended.Load())

	// --- Phase 2: every log is gap free ---
	for _, chat := range chats {
		all, err := repo.ListSince(chat.ID, 0, 0)
		req.NoError(err)
		req.Len(all, perChat)
		for i, message := range all {
			req.Equal(uint64(i+1), message.Sequence)
		}
	}

	// --- Phase 3: reads stay fast on a populated log ---
	target := chats[len(chats)/2].ID
	start = time.Now()
	page, err := repo.History(target, domain.Page{Size: 50})
	req.NoError(err)
	t.Logf("history page of %d read in %v", len(page), time.Since(start))
	req.Len(page, 50)

	start = time.Now()
	tail, err := repo.ListSince(target, perChat-100, 0)
	req.NoError(err)
	t.Logf("replay of %d messages read in %v", len(tail), time.Since(start))
	req.Len(tail, 100)
}

func BenchmarkMessageRepository_Append(b *testing.B) {
	db := openDB(b)
	repo := NewMessageRepository(db, slog.New(slog.DiscardHandler))
	users := newUsers(b, db, "alice", "bob")
	chat := newChat(b, db, users[0].ID, users[1].ID)
	payload := []byte("opaque ciphertext payload")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.Append(chat.ID, users[0].ID, payload, time.Now()); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMessageRepository_History(b *testing.B) {
	db := openDB(b)
	repo := NewMessageRepository(db, slog.New(slog.DiscardHandler))
	users := newUsers(b, db, "alice", "bob")
	chat := newChat(b, db, users[0].ID, users[1].ID)
	for i := 0; i < 5000; i++ {
		if _, err := repo.Append(chat.ID, users[i%2].ID, []byte(fmt.Sprintf("m-%d", i)), time.Now()); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.History(chat.ID, domain.Page{Size: 50}); err != nil {
			b.Fatal(err)
		}
	}
}
