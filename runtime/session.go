package runtime

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/konarjg/chat-server/auth"
	"github.com/konarjg/chat-server/contract"
	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/errors"
	"github.com/konarjg/chat-server/mapper"
	pb "github.com/konarjg/chat-server/proto/chat"

	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type SessionState int32

const (
	StateConnecting SessionState = iota
	StateAuthenticated
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

const defaultHandshakeTimeout = 10 * time.Second

// Stream is the server side of a ChatStream call.
type Stream interface {
	Context() context.Context
	Recv() (*pb.ClientToServerMessage, error)
	Send(*pb.ServerToClientMessage) error
}

type SessionConfig struct {
	BufferSize       int
	ReplayBatchSize  int
	HandshakeTimeout time.Duration
}

type frame struct {
	msg *pb.ClientToServerMessage
	err error
}

// Session bridges one ChatStream to the hub. It authenticates the stream,
// replays the backlog, then runs an inbound and an outbound lane until either
// side closes.
type Session struct {
	stream   Stream
	hub      *StreamHub
	sessions contract.ISessionStore
	backend  contract.IStreamBackend
	cfg      SessionConfig
	log      *slog.Logger

	state atomic.Int32
	conn  *Connection
}

func NewSession(stream Stream, hub *StreamHub, sessions contract.ISessionStore,
	backend contract.IStreamBackend, cfg SessionConfig, log *slog.Logger) *Session {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	return &Session{
		stream:   stream,
		hub:      hub,
		sessions: sessions,
		backend:  backend,
		cfg:      cfg,
		log:      log,
	}
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Run drives the session to completion. A nil error means the client closed its side.
func (s *Session) Run() error {
	ctx, cancel := context.WithCancel(s.stream.Context())
	defer cancel()
	defer s.state.Store(int32(StateClosed))

	frames := make(chan frame)
	go s.read(ctx, frames)

	userID, err := s.authenticate(ctx, frames)
	if err != nil {
		s.log.Debug("Stream rejected", "error", err)
		return err
	}

	s.conn = NewConnection(userID, s.cfg.BufferSize)
	previous := s.hub.Register(s.conn)
	s.state.Store(int32(StateAuthenticated))
	log := s.log.With("user_id", userID, "connection_id", s.conn.ID)
	log.Info("Stream connected", "online", s.hub.Online())
	defer func() {
		s.hub.Unregister(userID, s.conn)
		s.conn.Close(nil)
		log.Info("Stream closed", "reason", s.conn.Err())
	}()

	stored, err := s.backend.LoadCursors(userID)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	s.conn.Seed(stored.Merge(previous))

	// The backlog goes out before any inbound frame is processed.
	if err := s.replay(); err != nil {
		return s.closeErr(err)
	}

	replies := make(chan *pb.ServerToClientMessage, s.cfg.BufferSize)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.inbound(gctx, frames, replies) })
	g.Go(func() error { return s.outbound(gctx, replies) })
	return s.closeErr(g.Wait())
}

// read pumps Recv into frames. It stops on the first error or when ctx ends.
func (s *Session) read(ctx context.Context, frames chan<- frame) {
	for {
		msg, err := s.stream.Recv()
		select {
		case frames <- frame{msg: msg, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// authenticate takes the token from the authorization metadata, or else from
// an Auth frame that must be the first frame of the stream.
func (s *Session) authenticate(ctx context.Context, frames <-chan frame) (domain.UserID, error) {
	token, err := auth.BearerToken(ctx)
	if err != nil {
		timer := time.NewTimer(s.cfg.HandshakeTimeout)
		defer timer.Stop()
		select {
		case f := <-frames:
			if f.err != nil {
				return 0, status.Error(codes.Unauthenticated, "stream closed before authentication")
			}
			if f.msg.GetAuth() == nil {
				return 0, status.Error(codes.Unauthenticated, "first frame must authenticate")
			}
			token = f.msg.GetAuth().AccessToken
		case <-timer.C:
			return 0, status.Error(codes.Unauthenticated, "authentication timed out")
		case <-ctx.Done():
			return 0, status.FromContextError(ctx.Err()).Err()
		}
	}
	userID, err := s.sessions.Validate(token)
	if err != nil {
		return 0, status.Error(codes.Unauthenticated, errors.ErrInvalidToken.Error())
	}
	return userID, nil
}

// inbound processes send requests one at a time, in arrival order.
func (s *Session) inbound(ctx context.Context, frames <-chan frame, replies chan<- *pb.ServerToClientMessage) error {
	for {
		var f frame
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.conn.Done():
			return s.conn.Err()
		case f = <-frames:
		}
		if stderrors.Is(f.err, io.EOF) {
			close(replies)
			return nil
		}
		if f.err != nil {
			return f.err
		}

		send := f.msg.GetSendMessage()
		if send == nil {
			s.log.Debug("Ignoring frame without send request", "user_id", s.conn.UserID)
			continue
		}
		reply := s.handleSend(ctx, send)
		select {
		case replies <- reply:
		case <-ctx.Done():
			return ctx.Err()
		case <-s.conn.Done():
			return s.conn.Err()
		}
	}
}

func (s *Session) handleSend(ctx context.Context, req *pb.SendMessageRequest) *pb.ServerToClientMessage {
	message, err := s.backend.SendMessage(ctx, domain.SendMessageCommand{
		ChatID:          domain.ChatID(req.ChatId),
		SenderID:        s.conn.UserID,
		Ciphertext:      req.AesEncryptedContent,
		ClientMessageID: req.ClientMessageId,
	})
	result := &pb.SendResult{ClientMessageId: req.ClientMessageId, ChatId: req.ChatId}
	if err != nil {
		result.Code = uint32(errors.Code(err))
		result.ErrorMessage = err.Error()
		s.log.Info("Send rejected", "user_id", s.conn.UserID, "chat_id", req.ChatId, "error", err)
	} else {
		result.MessageId = message.ID.String()
		result.SequenceNo = message.Sequence
	}
	return &pb.ServerToClientMessage{SendResult: result}
}

// outbound is the only writer of the stream once authenticated.
func (s *Session) outbound(ctx context.Context, replies <-chan *pb.ServerToClientMessage) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.conn.Done():
			return s.conn.Err()
		case reply, ok := <-replies:
			if !ok {
				return nil
			}
			if err := s.send(reply); err != nil {
				return err
			}
		case message := <-s.conn.Events():
			if err := s.push(message); err != nil {
				return err
			}
		case <-s.conn.Resync():
			if err := s.replay(); err != nil {
				return err
			}
		}
	}
}

// push emits a live message. Anything already delivered is skipped and a hole
// before it is filled from the log first.
func (s *Session) push(message domain.Message) error {
	last := s.conn.Delivered(message.ChatID)
	switch {
	case message.Sequence <= last:
		return nil
	case message.Sequence > last+1:
		return s.catchUp(message.ChatID, last)
	}
	return s.emit(message)
}

// replay walks every chat of the user from its delivered position.
func (s *Session) replay() error {
	chats, err := s.backend.ChatsOf(s.conn.UserID)
	if err != nil {
		return err
	}
	for _, chat := range chats {
		if err := s.catchUp(chat.ID, s.conn.Delivered(chat.ID)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) catchUp(chat domain.ChatID, after uint64) error {
	for {
		batch, err := s.backend.ListSince(chat, after, s.cfg.ReplayBatchSize)
		if err != nil {
			return err
		}
		for _, message := range batch {
			if err := s.emit(message); err != nil {
				return err
			}
			after = message.Sequence
		}
		if s.cfg.ReplayBatchSize <= 0 || len(batch) < s.cfg.ReplayBatchSize {
			return nil
		}
	}
}

// emit sends one message and records it as delivered. The user's own messages
// were acknowledged by a SendResult; they only move the cursor.
func (s *Session) emit(message domain.Message) error {
	if message.Sequence <= s.conn.Delivered(message.ChatID) {
		return nil
	}
	if message.SenderID != s.conn.UserID {
		if err := s.send(mapper.NewMessageEvent(message)); err != nil {
			return err
		}
	}
	if s.conn.MarkDelivered(message.ChatID, message.Sequence) {
		if err := s.backend.AdvanceCursor(s.conn.UserID, message.ChatID, message.Sequence); err != nil {
			s.log.Warn("Cursor not persisted",
				"user_id", s.conn.UserID,
				"chat_id", message.ChatID,
				"sequence", message.Sequence,
				"error", err)
		}
	}
	return nil
}

// send writes one frame unless the connection is already closed. A frame
// handed to the transport just before a supersession is the only one the old
// stream can still get; its cursor was not advanced, so the successor replays it.
func (s *Session) send(msg *pb.ServerToClientMessage) error {
	select {
	case <-s.conn.Done():
		return s.conn.Err()
	case <-s.stream.Context().Done():
		return s.stream.Context().Err()
	default:
	}
	return s.stream.Send(msg)
}

func (s *Session) closeErr(err error) error {
	if err == nil {
		return nil
	}
	if reason := s.conn.Err(); reason != nil && stderrors.Is(err, context.Canceled) {
		err = reason
	}
	return errors.MapToGRPCError(err)
}
