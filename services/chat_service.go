package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/konarjg/chat-server/auth"
	"github.com/konarjg/chat-server/contract"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/konarjg/chat-server/repositories"
)

// RetryConfig bounds the retries of an append that failed with ErrUnavailable.
type RetryConfig struct {
	MaxTries uint
	Interval time.Duration
}

// IChatService is the chat surface used by the RPC layer. The stream backend
// methods serve ChatStream sessions.
type IChatService interface {
	contract.IStreamBackend
	CreateChat(cmd domain.CreateChatCommand) (domain.Chat, error)
	GetChats(user domain.UserID, page domain.Page) ([]domain.Chat, error)
	GetMessageHistory(user domain.UserID, chatID domain.ChatID, page domain.Page) ([]domain.Message, error)
}

type ChatService struct {
	chats         repositories.IChatRepository
	messages      repositories.IMessageRepository
	cursors       repositories.ICursorRepository
	fanout        contract.IFanout
	log           *slog.Logger
	maxPageSize   int
	maxCiphertext int
	retry         RetryConfig
}

func NewChatService(
	chats repositories.IChatRepository,
	messages repositories.IMessageRepository,
	cursors repositories.ICursorRepository,
	fanout contract.IFanout,
	log *slog.Logger,
	maxPageSize, maxCiphertext int,
	retry RetryConfig,
) *ChatService {
	return &ChatService{
		chats:         chats,
		messages:      messages,
		cursors:       cursors,
		fanout:        fanout,
		log:           log,
		maxPageSize:   maxPageSize,
		maxCiphertext: maxCiphertext,
		retry:         retry,
	}
}

// CreateChat registers a chat between the caller and the receiver. Key blobs are
// stored as given.
func (s *ChatService) CreateChat(cmd domain.CreateChatCommand) (domain.Chat, error) {
	err := auth.ValidateCreateChat(auth.CreateChatRequest{
		SenderID:    int64(cmd.SenderID),
		ReceiverID:  int64(cmd.ReceiverID),
		SenderKey:   cmd.SenderKey,
		ReceiverKey: cmd.ReceiverKey,
	})
	if err != nil {
		return domain.Chat{}, err
	}
	chat, err := s.chats.CreateChat(cmd)
	if err != nil {
		return domain.Chat{}, err
	}
	s.log.Info("Chat created", "chat_id", chat.ID, "sender_id", chat.SenderID, "receiver_id", chat.ReceiverID)
	return chat, nil
}

func (s *ChatService) GetChats(user domain.UserID, page domain.Page) ([]domain.Chat, error) {
	return s.chats.ListChats(user, clampPage(page, s.maxPageSize))
}

func (s *ChatService) GetMessageHistory(user domain.UserID, chatID domain.ChatID, page domain.Page) ([]domain.Message, error) {
	if _, err := s.participantChat(user, chatID); err != nil {
		return nil, err
	}
	return s.messages.History(chatID, clampPage(page, s.maxPageSize))
}

// SendMessage authorizes the sender, appends the message durably and fans it
// out. The returned message carries its sequence number.
func (s *ChatService) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	err := auth.ValidateSendMessage(auth.SendMessageRequest{
		ChatID:     int64(cmd.ChatID),
		Ciphertext: cmd.Ciphertext,
	}, s.maxCiphertext)
	if err != nil {
		return domain.Message{}, err
	}
	chat, err := s.participantChat(cmd.SenderID, cmd.ChatID)
	if err != nil {
		return domain.Message{}, err
	}

	at := cmd.SentAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	message, err := s.appendWithRetry(ctx, chat.ID, cmd.SenderID, cmd.Ciphertext, at)
	if err != nil {
		return domain.Message{}, err
	}
	s.fanout.Fanout(chat, message)
	return message, nil
}

func (s *ChatService) appendWithRetry(ctx context.Context, chat domain.ChatID, sender domain.UserID, ciphertext []byte, at time.Time) (domain.Message, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retry.Interval
	attempt := 0

	return backoff.Retry(ctx, func() (domain.Message, error) {
		attempt++
		message, err := s.messages.Append(chat, sender, ciphertext, at)
		switch {
		case err == nil:
			return message, nil
		case stderrors.Is(err, errors.ErrUnavailable):
			s.log.Warn("Append failed, retrying", "chat_id", chat, "attempt", attempt, "error", err)
			return domain.Message{}, err
		default:
			return domain.Message{}, backoff.Permanent(err)
		}
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(max(s.retry.MaxTries, 1)))
}

func (s *ChatService) participantChat(user domain.UserID, chatID domain.ChatID) (domain.Chat, error) {
	chat, err := s.chats.GetChat(chatID)
	if err != nil {
		return domain.Chat{}, err
	}
	if !chat.HasParticipant(user) {
		return domain.Chat{}, fmt.Errorf("%w: user %d, chat %d", errors.ErrNotParticipant, user, chatID)
	}
	return chat, nil
}

func (s *ChatService) ChatsOf(user domain.UserID) ([]domain.Chat, error) {
	return s.chats.ChatsOf(user)
}

func (s *ChatService) ListSince(chat domain.ChatID, after uint64, limit int) ([]domain.Message, error) {
	return s.messages.ListSince(chat, after, limit)
}

func (s *ChatService) LoadCursors(user domain.UserID) (domain.Cursors, error) {
	return s.cursors.LoadCursors(user)
}

func (s *ChatService) AdvanceCursor(user domain.UserID, chat domain.ChatID, seq uint64) error {
	return s.cursors.AdvanceCursor(user, chat, seq)
}
