package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/konarjg/chat-server/auth"
	"github.com/konarjg/chat-server/infrastructure/grpc/server"
	"github.com/konarjg/chat-server/observability"
	pb "github.com/konarjg/chat-server/proto/chat"
	"github.com/konarjg/chat-server/repositories"
	"github.com/konarjg/chat-server/runtime"
	"github.com/konarjg/chat-server/services"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type BaseGrpcSuite struct {
	suite.Suite
	Config Config

	dial     func(context.Context, string) (net.Conn, error)
	shutdown func()
}

// SetupSuite loads the environment configuration and boots an in-process
// server unless E2E_SERVER_ADDR points at a running one.
func (s *BaseGrpcSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.bootInProcess()
	}
}

func (s *BaseGrpcSuite) TearDownSuite() {
	if s.shutdown != nil {
		s.shutdown()
	}
}

func (s *BaseGrpcSuite) bootInProcess() {
	log := slog.New(slog.DiscardHandler)
	dir := s.T().TempDir()
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	users, err := repositories.NewUserRepository(db)
	s.Require().NoError(err)
	chats, err := repositories.NewChatRepository(db)
	s.Require().NoError(err)

	tokens := auth.NewTokenManager("e2e-secret", "chat-server", "chat-clients", time.Hour)
	hub := runtime.NewStreamHub(log)
	params := auth.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	chatService := services.NewChatService(chats, repositories.NewMessageRepository(db, log),
		repositories.NewCursorRepository(db), hub, log, 100, 64*1024,
		services.RetryConfig{MaxTries: 5, Interval: 5 * time.Millisecond})
	srv := server.NewServer(log, tokens,
		server.NewAuthServer(services.NewAuthService(users, repositories.NewRefreshTokenRepository(db), tokens, params, time.Hour, log)),
		server.NewUserServer(services.NewUserService(users, 100)),
		server.NewChatServer(log, chatService, hub, tokens, observability.NewMonitoringManager(log),
			runtime.SessionConfig{BufferSize: 4, ReplayBatchSize: 8, HandshakeTimeout: time.Second}))

	listener := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(listener) }()

	s.Config.ServerAddr = "passthrough:///bufnet"
	s.dial = func(context.Context, string) (net.Conn, error) { return listener.Dial() }
	s.shutdown = func() {
		srv.Drain(hub.CloseAll, 5*time.Second)
		_ = users.Close()
		_ = chats.Close()
		_ = db.Close()
	}
}

// Step prints a colorized header for a scenario step
func (s *BaseGrpcSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// GrpcConn initializes a gRPC connection that logs every unary call
func (s *BaseGrpcSuite) GrpcConn(t *testing.T) *grpc.ClientConn {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(pb.Codec{})),
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)

			logBuilder := strings.Builder{}
			fmt.Fprintf(&logBuilder, "GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))
			if s.Config.DebugFrames {
				fmt.Fprintf(&logBuilder, "\nREQUEST: %+v", req)
				if err != nil {
					fmt.Fprintf(&logBuilder, "\nERROR: %v", err)
				} else {
					fmt.Fprintf(&logBuilder, "\nRESPONSE: %+v", reply)
				}
			}
			t.Log(logBuilder.String())
			return err
		}),
	}
	if s.dial != nil {
		opts = append(opts, grpc.WithContextDialer(s.dial))
	}
	conn, err := grpc.NewClient(s.Config.ServerAddr, opts...)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+s.Config.ServerAddr)
	return conn
}

// Client bundles the three service clients of one user.
type Client struct {
	Auth  *pb.AuthServiceClient
	Users *pb.UserServiceClient
	Chats *pb.ChatServiceClient
	Token string
}

func (c *Client) Authorized(ctx context.Context) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.Token)
}

// WithClient provides the service clients within a contextual test step
func (s *BaseGrpcSuite) WithClient(name string, fn func(ctx context.Context, client *Client)) {
	s.Step(name)
	conn := s.GrpcConn(s.T())
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.Timeout)
	defer cancel()
	fn(ctx, &Client{
		Auth:  pb.NewAuthServiceClient(conn),
		Users: pb.NewUserServiceClient(conn),
		Chats: pb.NewChatServiceClient(conn),
	})
}

// OpenStream starts a ChatStream on its own connection. The stream is closed
// with the returned cancel function.
func (s *BaseGrpcSuite) OpenStream(token string) (pb.ChatStreamClient, context.CancelFunc) {
	conn := s.GrpcConn(s.T())
	ctx, cancel := context.WithTimeout(context.Background(), s.Config.Timeout)
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	stream, err := pb.NewChatServiceClient(conn).ChatStream(ctx)
	s.Require().NoError(err)
	return stream, func() {
		cancel()
		_ = conn.Close()
	}
}

// Recv reads the next frame, dumping it when E2E_DEBUG_FRAMES is set
func (s *BaseGrpcSuite) Recv(stream pb.ChatStreamClient) *pb.ServerToClientMessage {
	frame, err := stream.Recv()
	s.Require().NoError(err)
	if s.Config.DebugFrames {
		s.T().Logf("FRAME: %+v %+v", frame.GetNewMessage(), frame.GetSendResult())
	}
	return frame
}

// AwaitReady blocks until the session behind stream is live. It sends a
// request the server always rejects and waits for its result, which only comes
// back once authentication and replay are over. Replayed messages are skipped.
func (s *BaseGrpcSuite) AwaitReady(stream pb.ChatStreamClient) {
	s.Require().NoError(stream.Send(&pb.ClientToServerMessage{SendMessage: &pb.SendMessageRequest{ClientMessageId: "ready"}}))
	for {
		if result := s.Recv(stream).GetSendResult(); result != nil && result.ClientMessageId == "ready" {
			s.Require().Equal(uint32(codes.InvalidArgument), result.Code)
			return
		}
	}
}
