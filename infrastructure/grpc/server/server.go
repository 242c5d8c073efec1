package server

import (
	"log/slog"
	"time"

	"github.com/konarjg/chat-server/auth"
	"github.com/konarjg/chat-server/contract"
	pb "github.com/konarjg/chat-server/proto/chat"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server bundles the gRPC server with its health service so both stop together.
type Server struct {
	*grpc.Server
	health *health.Server
	log    *slog.Logger
}

// NewServer builds a gRPC server that authenticates unary calls with sessions
// and serves the three chat services plus the standard health service.
func NewServer(log *slog.Logger, sessions contract.ISessionStore,
	authServer *AuthServer, userServer *UserServer, chatServer *ChatServer) *Server {
	s := grpc.NewServer(
		grpc.ForceServerCodec(pb.Codec{}),
		grpc.ChainUnaryInterceptor(auth.AuthInterceptor(sessions)),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	pb.RegisterAuthServiceServer(s, authServer)
	pb.RegisterUserServiceServer(s, userServer)
	pb.RegisterChatServiceServer(s, chatServer)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	for _, service := range []string{"", pb.AuthService_ServiceDesc.ServiceName,
		pb.UserService_ServiceDesc.ServiceName, pb.ChatService_ServiceDesc.ServiceName} {
		hs.SetServingStatus(service, healthpb.HealthCheckResponse_SERVING)
	}
	return &Server{Server: s, health: hs, log: log}
}

// GracefulStop reports NOT_SERVING first so load balancers drain the node.
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.log.Info("Draining gRPC server")
	s.Server.GracefulStop()
}

// Drain stops the server: health goes NOT_SERVING, new calls are refused,
// closeStreams ends the live chat streams, then in-flight handlers get up to
// timeout before the server is stopped hard.
func (s *Server) Drain(closeStreams func(), timeout time.Duration) {
	s.health.Shutdown()
	s.log.Info("Draining gRPC server", "timeout", timeout)

	done := make(chan struct{})
	go func() {
		s.Server.GracefulStop()
		close(done)
	}()
	closeStreams()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		s.log.Warn("Drain timed out, stopping gRPC server")
		s.Server.Stop()
		<-done
	}
}
