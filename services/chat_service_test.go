package services_test

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/konarjg/chat-server/mocks"
	"github.com/konarjg/chat-server/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chatMocks struct {
	chats    *mocks.MockIChatRepository
	messages *mocks.MockIMessageRepository
	cursors  *mocks.MockICursorRepository
	fanout   *mocks.MockIFanout
}

func newChatService(t *testing.T) (*services.ChatService, chatMocks) {
	ctrl := gomock.NewController(t)
	m := chatMocks{
		chats:    mocks.NewMockIChatRepository(ctrl),
		messages: mocks.NewMockIMessageRepository(ctrl),
		cursors:  mocks.NewMockICursorRepository(ctrl),
		fanout:   mocks.NewMockIFanout(ctrl),
	}
	svc := services.NewChatService(m.chats, m.messages, m.cursors, m.fanout, slog.Default(), 50, 16,
		services.RetryConfig{MaxTries: 3, Interval: time.Millisecond})
	return svc, m
}

var chatAB = domain.Chat{ID: 1, SenderID: 10, ReceiverID: 20}

func TestChatService_SendMessage(t *testing.T) {
	t.Run("should append then fan out", func(t *testing.T) {
		req := require.New(t)
		svc, m := newChatService(t)
		stored := domain.Message{ID: uuid.New(), ChatID: 1, SenderID: 10, Sequence: 1, Ciphertext: []byte("hi")}

		gomock.InOrder(
			m.chats.EXPECT().GetChat(domain.ChatID(1)).Return(chatAB, nil),
			m.messages.EXPECT().Append(domain.ChatID(1), domain.UserID(10), []byte("hi"), gomock.Any()).Return(stored, nil),
			m.fanout.EXPECT().Fanout(chatAB, stored),
		)

		got, err := svc.SendMessage(context.Background(), domain.SendMessageCommand{ChatID: 1, SenderID: 10, Ciphertext: []byte("hi")})

		req.NoError(err)
		req.Equal(stored, got)
	})

	t.Run("should refuse a non participant", func(t *testing.T) {
		req := require.New(t)
		svc, m := newChatService(t)
		m.chats.EXPECT().GetChat(domain.ChatID(1)).Return(chatAB, nil)
		m.messages.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendMessage(context.Background(), domain.SendMessageCommand{ChatID: 1, SenderID: 30, Ciphertext: []byte("hi")})

		req.ErrorIs(err, errors.ErrNotParticipant)
	})

	t.Run("should refuse oversized ciphertext", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newChatService(t)

		_, err := svc.SendMessage(context.Background(), domain.SendMessageCommand{ChatID: 1, SenderID: 10, Ciphertext: make([]byte, 17)})

		req.ErrorIs(err, errors.ErrInvalidArgument)
	})

	t.Run("should retry unavailable appends", func(t *testing.T) {
		req := require.New(t)
		svc, m := newChatService(t)
		stored := domain.Message{ID: uuid.New(), ChatID: 1, SenderID: 10, Sequence: 4}
		unavailable := fmt.Errorf("%w: conflict", errors.ErrUnavailable)

		m.chats.EXPECT().GetChat(domain.ChatID(1)).Return(chatAB, nil)
		gomock.InOrder(
			m.messages.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.Message{}, unavailable),
			m.messages.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(stored, nil),
		)
		m.fanout.EXPECT().Fanout(chatAB, stored)

		got, err := svc.SendMessage(context.Background(), domain.SendMessageCommand{ChatID: 1, SenderID: 10, Ciphertext: []byte("x")})

		req.NoError(err)
		req.Equal(uint64(4), got.Sequence)
	})

	t.Run("should surface unavailable after the last try", func(t *testing.T) {
		req := require.New(t)
		svc, m := newChatService(t)
		unavailable := fmt.Errorf("%w: conflict", errors.ErrUnavailable)

		m.chats.EXPECT().GetChat(domain.ChatID(1)).Return(chatAB, nil)
		m.messages.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.Message{}, unavailable).Times(3)
		m.fanout.EXPECT().Fanout(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.SendMessage(context.Background(), domain.SendMessageCommand{ChatID: 1, SenderID: 10, Ciphertext: []byte("x")})

		req.ErrorIs(err, errors.ErrUnavailable)
	})

	t.Run("should not retry permanent failures", func(t *testing.T) {
		req := require.New(t)
		svc, m := newChatService(t)

		m.chats.EXPECT().GetChat(domain.ChatID(1)).Return(chatAB, nil)
		m.messages.EXPECT().Append(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.Message{}, errors.ErrChatNotFound).Times(1)

		_, err := svc.SendMessage(context.Background(), domain.SendMessageCommand{ChatID: 1, SenderID: 10, Ciphertext: []byte("x")})

		req.ErrorIs(err, errors.ErrChatNotFound)
	})
}

func TestChatService_CreateChat(t *testing.T) {
	t.Run("should reject a self chat without touching storage", func(t *testing.T) {
		req := require.New(t)
		svc, m := newChatService(t)
		m.chats.EXPECT().CreateChat(gomock.Any()).Times(0)

		_, err := svc.CreateChat(domain.CreateChatCommand{SenderID: 10, ReceiverID: 10, SenderKey: []byte{1}, ReceiverKey: []byte{2}})

		req.ErrorIs(err, errors.ErrSelfChat)
	})

	t.Run("should store key blobs untouched", func(t *testing.T) {
		req := require.New(t)
		svc, m := newChatService(t)
		cmd := domain.CreateChatCommand{SenderID: 10, ReceiverID: 20, SenderKey: []byte("not even a key"), ReceiverKey: []byte{0}}
		m.chats.EXPECT().CreateChat(cmd).Return(domain.Chat{ID: 5, SenderID: 10, ReceiverID: 20}, nil)

		chat, err := svc.CreateChat(cmd)

		req.NoError(err)
		req.Equal(domain.ChatID(5), chat.ID)
	})
}

func TestChatService_GetMessageHistory(t *testing.T) {
	t.Run("should clamp the page size", func(t *testing.T) {
		req := require.New(t)
		svc, m := newChatService(t)
		m.chats.EXPECT().GetChat(domain.ChatID(1)).Return(chatAB, nil)
		m.messages.EXPECT().History(domain.ChatID(1), domain.Page{Size: 50}).Return(nil, nil)

		_, err := svc.GetMessageHistory(20, 1, domain.Page{Size: 1000})

		req.NoError(err)
	})

	t.Run("should refuse outsiders", func(t *testing.T) {
		req := require.New(t)
		svc, m := newChatService(t)
		m.chats.EXPECT().GetChat(domain.ChatID(1)).Return(chatAB, nil)

		_, err := svc.GetMessageHistory(30, 1, domain.Page{})

		req.ErrorIs(err, errors.ErrNotParticipant)
	})
}
