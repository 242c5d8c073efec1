//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"github.com/konarjg/chat-server/domain"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// ISessionStore resolves a bearer token to the user it authenticates.
type ISessionStore interface {
	Validate(token string) (domain.UserID, error)
}

// IFanout pushes a durable message to the live connections of a chat's participants.
type IFanout interface {
	Fanout(chat domain.Chat, message domain.Message)
}

// IPresence reports how many users hold a live stream.
type IPresence interface {
	Online() int
}

// IBacklogSource exposes the outbound buffer levels of live connections.
type IBacklogSource interface {
	Backlogs() []domain.Backlog
}

// IStreamBackend is what a ChatStream session needs from the chat services.
type IStreamBackend interface {
	SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error)
	ChatsOf(user domain.UserID) ([]domain.Chat, error)
	ListSince(chat domain.ChatID, after uint64, limit int) ([]domain.Message, error)
	LoadCursors(user domain.UserID) (domain.Cursors, error)
	AdvanceCursor(user domain.UserID, chat domain.ChatID, seq uint64) error
}
