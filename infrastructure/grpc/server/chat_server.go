package server

import (
	"context"
	"log/slog"

	"github.com/konarjg/chat-server/auth"
	"github.com/konarjg/chat-server/contract"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/konarjg/chat-server/mapper"
	"github.com/konarjg/chat-server/observability"
	pb "github.com/konarjg/chat-server/proto/chat"
	"github.com/konarjg/chat-server/runtime"
	"github.com/konarjg/chat-server/services"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ChatServer struct {
	pb.UnimplementedChatServiceServer
	chatService services.IChatService
	hub         *runtime.StreamHub
	sessions    contract.ISessionStore
	monitor     *observability.MonitoringManager
	sessionCfg  runtime.SessionConfig
	log         *slog.Logger
}

func NewChatServer(log *slog.Logger, chatService services.IChatService, hub *runtime.StreamHub,
	sessions contract.ISessionStore, monitor *observability.MonitoringManager, sessionCfg runtime.SessionConfig) *ChatServer {
	return &ChatServer{
		chatService: chatService,
		hub:         hub,
		sessions:    sessions,
		monitor:     monitor,
		sessionCfg:  sessionCfg,
		log:         log,
	}
}

// CreateChat opens a chat between the caller and the receiver. The caller is
// always the sender.
func (s *ChatServer) CreateChat(ctx context.Context, in *pb.CreateChatRequest) (*pb.Chat, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := s.chatService.CreateChat(domain.CreateChatCommand{
		SenderID:    userID,
		ReceiverID:  domain.UserID(in.ReceiverId),
		SenderKey:   in.SenderEncryptedAesKey,
		ReceiverKey: in.ReceiverEncryptedAesKey,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return mapper.ToPbChat(chat), nil
}

func (s *ChatServer) GetChats(ctx context.Context, in *pb.GetChatsRequest) (*pb.GetChatsResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	chats, err := s.chatService.GetChats(userID, mapper.ToPage(in.PageSize, in.LastId))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.GetChatsResponse{Chats: mapper.ToPbChats(chats)}, nil
}

func (s *ChatServer) GetMessageHistory(ctx context.Context, in *pb.GetMessageHistoryRequest) (*pb.GetMessageHistoryResponse, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.chatService.GetMessageHistory(userID, domain.ChatID(in.ChatId), mapper.ToPage(in.PageSize, in.LastId))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.GetMessageHistoryResponse{Messages: mapper.ToPbMessages(messages)}, nil
}

// ChatStream blocks for the lifetime of the stream. Authentication happens
// inside the session since unary interceptors do not cover streams.
func (s *ChatServer) ChatStream(stream pb.ChatStreamServer) error {
	s.monitor.StreamOpened()
	backend := &monitoredBackend{IChatService: s.chatService, monitor: s.monitor}
	err := runtime.NewSession(stream, s.hub, s.sessions, backend, s.sessionCfg, s.log).Run()
	s.monitor.StreamClosed(err)
	return err
}

// monitoredBackend counts the outcome of every send made over a stream.
type monitoredBackend struct {
	services.IChatService
	monitor *observability.MonitoringManager
}

func (b *monitoredBackend) SendMessage(ctx context.Context, cmd domain.SendMessageCommand) (domain.Message, error) {
	message, err := b.IChatService.SendMessage(ctx, cmd)
	if err != nil {
		b.monitor.SendRejected()
		return message, err
	}
	b.monitor.MessageSent()
	return message, nil
}

func callerID(ctx context.Context) (domain.UserID, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, errors.ErrInvalidToken.Error())
	}
	return userID, nil
}
