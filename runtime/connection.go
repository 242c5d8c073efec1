package runtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
)

// Connection is the hub-side handle of one live ChatStream.
// Only the StreamHub writes to its events channel.
type Connection struct {
	ID     uuid.UUID
	UserID domain.UserID

	events chan domain.Message
	resync chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	closed  bool
	reason  error
	cursors domain.Cursors
}

func NewConnection(user domain.UserID, bufferSize int) *Connection {
	return &Connection{
		ID:      uuid.New(),
		UserID:  user,
		events:  make(chan domain.Message, bufferSize),
		resync:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		cursors: domain.Cursors{},
	}
}

// Events carries messages pushed by the hub. The channel is never closed; watch Done.
func (c *Connection) Events() <-chan domain.Message { return c.events }

func (c *Connection) Backlog() domain.Backlog {
	return domain.Backlog{UserID: c.UserID, Length: len(c.events), Capacity: cap(c.events)}
}

// Resync fires when a push was dropped and the log must be re-read.
func (c *Connection) Resync() <-chan struct{} { return c.resync }

func (c *Connection) Done() <-chan struct{} { return c.done }

// Err returns the close reason, nil while the connection is open.
func (c *Connection) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Close marks the connection closed. Only the first call has an effect and
// reports true. A nil reason is recorded as ErrClosed.
func (c *Connection) Close(reason error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if reason == nil {
		reason = errors.ErrClosed
	}
	c.closed, c.reason = true, reason
	close(c.done)
	return true
}

// offer pushes without blocking. It fails when the connection is closed or its buffer is full.
func (c *Connection) offer(message domain.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.events <- message:
		return true
	default:
		return false
	}
}

func (c *Connection) requestResync() {
	select {
	case c.resync <- struct{}{}:
	default:
	}
}

// Seed sets the starting positions, keeping any higher position already known.
func (c *Connection) Seed(cursors domain.Cursors) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursors = c.cursors.Merge(cursors)
}

// MarkDelivered records that seq was handed to the client. It reports false if
// the position was already reached.
func (c *Connection) MarkDelivered(chat domain.ChatID, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq <= c.cursors[chat] {
		return false
	}
	c.cursors[chat] = seq
	return true
}

func (c *Connection) Delivered(chat domain.ChatID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursors[chat]
}

func (c *Connection) Cursors() domain.Cursors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursors.Clone()
}
