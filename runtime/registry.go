package runtime

import (
	"log/slog"
	"sync"

	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/samber/lo"
)

// StreamHub maps every online user to its single live connection and routes
// appended messages to it.
type StreamHub struct {
	mu          sync.RWMutex
	connections map[domain.UserID]*Connection
	closed      bool
	log         *slog.Logger
}

func NewStreamHub(log *slog.Logger) *StreamHub {
	return &StreamHub{
		connections: make(map[domain.UserID]*Connection),
		log:         log,
	}
}

// Register installs conn as the user's live connection. A previous connection
// is closed with ErrSuperseded under the same lock, so no delivery can reach it
// afterwards. The previous connection's delivered positions are returned.
// Once the hub is closed every new connection is closed with ErrClosed.
func (h *StreamHub) Register(conn *Connection) domain.Cursors {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		conn.Close(errors.ErrClosed)
		return nil
	}

	previous, ok := h.connections[conn.UserID]
	h.connections[conn.UserID] = conn
	if !ok || previous == conn {
		return nil
	}
	previous.Close(errors.ErrSuperseded)
	h.log.Info("Connection superseded",
		"user_id", conn.UserID,
		"previous", previous.ID,
		"current", conn.ID)
	return previous.Cursors()
}

// Unregister removes the mapping only if it still points at conn, so a
// superseded session tearing down never evicts its successor. Idempotent.
func (h *StreamHub) Unregister(user domain.UserID, conn *Connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, ok := h.connections[user]
	if !ok || current != conn {
		return false
	}
	delete(h.connections, user)
	return true
}

// Deliver pushes message to the recipient's live connection, if any.
// It never blocks: a saturated connection is asked to resync from the log instead.
func (h *StreamHub) Deliver(recipient domain.UserID, message domain.Message) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.connections[recipient]
	if !ok {
		return false
	}
	if conn.offer(message) {
		return true
	}
	conn.requestResync()
	h.log.Warn("Outbound buffer saturated, message left for replay",
		"user_id", recipient,
		"chat_id", message.ChatID,
		"sequence", message.Sequence)
	return false
}

// Fanout delivers message to both participants. The sender's copy only moves
// its cursor forward.
func (h *StreamHub) Fanout(chat domain.Chat, message domain.Message) {
	for _, user := range chat.Participants() {
		h.Deliver(user, message)
	}
}

// Connection returns the user's live connection.
func (h *StreamHub) Connection(user domain.UserID) (*Connection, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conn, ok := h.connections[user]
	return conn, ok
}

func (h *StreamHub) Online() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Backlogs samples the outbound buffer of every live connection.
func (h *StreamHub) Backlogs() []domain.Backlog {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.MapToSlice(h.connections, func(_ domain.UserID, conn *Connection) domain.Backlog {
		return conn.Backlog()
	})
}

// CloseAll ends every live connection with ErrClosed and refuses later
// registrations. Used on shutdown.
func (h *StreamHub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for user, conn := range h.connections {
		conn.Close(errors.ErrClosed)
		delete(h.connections, user)
	}
}
