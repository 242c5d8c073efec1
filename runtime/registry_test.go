package runtime

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/stretchr/testify/require"
)

func message(chat domain.ChatID, sender domain.UserID, seq uint64) domain.Message {
	return domain.Message{
		ID:         uuid.New(),
		ChatID:     chat,
		SenderID:   sender,
		Sequence:   seq,
		Ciphertext: []byte("cipher"),
		At:         time.Now().UTC(),
	}
}

func TestStreamHub_Register_Deliver(t *testing.T) {
	req := require.New(t)
	hub := NewStreamHub(slog.Default())
	conn := NewConnection(2, 4)

	// Given no user is connected
	req.Zero(hub.Online())
	req.False(hub.Deliver(2, message(1, 1, 1)))

	// When the recipient registers
	req.Nil(hub.Register(conn))

	// Then deliveries reach its connection
	req.Equal(1, hub.Online())
	req.True(hub.Deliver(2, message(1, 1, 1)))
	got := <-conn.Events()
	req.Equal(uint64(1), got.Sequence)
}

func TestStreamHub_Supersession(t *testing.T) {
	req := require.New(t)
	hub := NewStreamHub(slog.Default())
	first := NewConnection(2, 4)
	second := NewConnection(2, 4)

	hub.Register(first)
	first.MarkDelivered(1, 5)

	previous := hub.Register(second)

	// The earlier connection observes exactly one forced close
	req.Equal(domain.Cursors{1: 5}, previous)
	req.ErrorIs(first.Err(), errors.ErrSuperseded)
	req.False(first.Close(errors.ErrClosed))
	select {
	case <-first.Done():
	default:
		req.Fail("superseded connection must be done")
	}

	// And nothing reaches it afterwards
	req.True(hub.Deliver(2, message(1, 1, 6)))
	req.Len(first.Events(), 0)
	req.Len(second.Events(), 1)

	// Tearing down the old session leaves the new one registered
	req.False(hub.Unregister(2, first))
	req.Equal(1, hub.Online())
	req.True(hub.Unregister(2, second))
	req.False(hub.Unregister(2, second))
	req.Zero(hub.Online())
}

func TestStreamHub_Deliver_SaturatedRequestsResync(t *testing.T) {
	req := require.New(t)
	hub := NewStreamHub(slog.Default())
	conn := NewConnection(2, 1)
	hub.Register(conn)

	req.True(hub.Deliver(2, message(1, 1, 1)))
	req.False(hub.Deliver(2, message(1, 1, 2)))
	req.False(hub.Deliver(2, message(1, 1, 3)))

	req.Len(conn.Events(), 1)
	req.Len(conn.Resync(), 1, "resync requests collapse into one signal")
}

func TestStreamHub_Fanout(t *testing.T) {
	req := require.New(t)
	hub := NewStreamHub(slog.Default())
	sender := NewConnection(1, 4)
	receiver := NewConnection(2, 4)
	hub.Register(sender)
	hub.Register(receiver)
	chat := domain.Chat{ID: 9, SenderID: 1, ReceiverID: 2}

	hub.Fanout(chat, message(9, 1, 1))

	req.Len(receiver.Events(), 1)
	req.Len(sender.Events(), 1)
}

// A delivery racing a supersession lands on exactly one connection, and never
// on one that has already been replaced.
func TestStreamHub_ConcurrentSupersessionAndDelivery(t *testing.T) {
	req := require.New(t)
	hub := NewStreamHub(slog.Default())
	const rounds = 200

	var wg sync.WaitGroup
	conns := make([]*Connection, rounds)
	for i := range conns {
		conns[i] = NewConnection(2, rounds)
	}

	accepted := 0
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, c := range conns {
			hub.Register(c)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if hub.Deliver(2, message(1, 1, uint64(i+1))) {
				accepted++
			}
		}
	}()
	wg.Wait()

	for _, c := range conns[:rounds-1] {
		req.ErrorIs(c.Err(), errors.ErrSuperseded)
	}
	req.NoError(conns[rounds-1].Err())

	// Every accepted delivery sits in one buffer, and a later connection only
	// holds messages sent after everything its predecessors received.
	buffered := 0
	var last uint64
	for _, c := range conns {
		for len(c.Events()) > 0 {
			m := <-c.Events()
			req.Greater(m.Sequence, last)
			last = m.Sequence
			buffered++
		}
	}
	req.Equal(accepted, buffered)
}

func TestConnection_MarkDelivered(t *testing.T) {
	req := require.New(t)
	conn := NewConnection(1, 1)
	conn.Seed(domain.Cursors{3: 4})

	req.False(conn.MarkDelivered(3, 4))
	req.True(conn.MarkDelivered(3, 5))
	req.False(conn.MarkDelivered(3, 2))
	req.Equal(uint64(5), conn.Delivered(3))

	conn.Seed(domain.Cursors{3: 1, 4: 2})
	req.Equal(domain.Cursors{3: 5, 4: 2}, conn.Cursors())
}

func TestStreamHub_CloseAll(t *testing.T) {
	req := require.New(t)
	hub := NewStreamHub(slog.Default())
	first, second := NewConnection(1, 1), NewConnection(2, 1)
	hub.Register(first)
	hub.Register(second)

	hub.CloseAll()

	req.Zero(hub.Online())
	req.ErrorIs(first.Err(), errors.ErrClosed)
	req.ErrorIs(second.Err(), errors.ErrClosed)
	req.False(hub.Unregister(1, first))

	// A stream that authenticates during shutdown is closed right away
	late := NewConnection(3, 1)
	req.Nil(hub.Register(late))
	req.ErrorIs(late.Err(), errors.ErrClosed)
	req.Zero(hub.Online())
	req.False(hub.Deliver(3, message(1, 1, 1)))
}

func TestStreamHub_Backlogs(t *testing.T) {
	req := require.New(t)
	hub := NewStreamHub(slog.Default())
	conn := NewConnection(2, 4)
	hub.Register(conn)
	hub.Deliver(2, message(1, 1, 1))
	hub.Deliver(2, message(1, 1, 2))

	backlogs := hub.Backlogs()

	req.Equal([]domain.Backlog{{UserID: 2, Length: 2, Capacity: 4}}, backlogs)
	req.Equal(50, backlogs[0].Percent())
}
