package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/konarjg/chat-server/auth"
	"github.com/konarjg/chat-server/infrastructure/grpc/server"
	"github.com/konarjg/chat-server/observability"
	"github.com/konarjg/chat-server/repositories"
	"github.com/konarjg/chat-server/runtime"
	"github.com/konarjg/chat-server/runtime/workers"
	"github.com/konarjg/chat-server/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until a signal or a serve error.
// Deferred cleanups run before main exits.
func run() error {
	// 1. Configuration & Logger
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, "chat-server", config.OtelEndpoint)
	if err != nil {
		return fmt.Errorf("tracing setup failed: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories & Services
	userRepository, err := repositories.NewUserRepository(db)
	if err != nil {
		return fmt.Errorf("user repository: %w", err)
	}
	defer userRepository.Close()
	chatRepository, err := repositories.NewChatRepository(db)
	if err != nil {
		return fmt.Errorf("chat repository: %w", err)
	}
	defer chatRepository.Close()
	refreshTokenRepository := repositories.NewRefreshTokenRepository(db)

	tokenManager := auth.NewTokenManager(config.JWTSecret, config.JWTIssuer, config.JWTAudience, config.AuthTokenDuration)
	hub := runtime.NewStreamHub(log)
	monitor := observability.NewMonitoringManager(log)

	authService := services.NewAuthService(userRepository, refreshTokenRepository, tokenManager,
		auth.DefaultParams, config.RefreshTokenDuration, log)
	userService := services.NewUserService(userRepository, config.MaxPageSize)
	chatService := services.NewChatService(
		chatRepository,
		repositories.NewMessageRepository(db, log),
		repositories.NewCursorRepository(db),
		hub, log, config.MaxPageSize, config.MaxCiphertextBytes,
		services.RetryConfig{MaxTries: config.AppendMaxRetries, Interval: config.AppendRetryInterval},
	)

	// 4. Background workers
	sup := workers.NewSupervisor(log, config.RestartInterval).
		Add(workers.NewBadgerGCWorker(db, log, config.GCInterval)).
		Add(workers.NewTokenJanitorWorker(refreshTokenRepository, log, config.JanitorInterval)).
		Add(workers.NewHealthMonitoringWorker(log, hub, config.MetricInterval)).
		Add(workers.NewOutboundBacklogWorker(log, hub, config.BacklogWarnPercent, config.MetricInterval)).
		Add(workers.NewReporterWorker(monitor, config.MetricInterval))
	go sup.Run(ctx)

	// 5. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := server.NewServer(log, tokenManager,
		server.NewAuthServer(authService),
		server.NewUserServer(userService),
		server.NewChatServer(log, chatService, hub, tokenManager, monitor, runtime.SessionConfig{
			BufferSize:       config.ConnectionBufferSize,
			ReplayBatchSize:  config.ReplayBatchSize,
			HandshakeTimeout: config.HandshakeTimeout,
		}),
	)

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && !stderrors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final Cleanup
	// New calls are refused before open streams are closed.
	s.Drain(hub.CloseAll, config.ShutdownTimeout)
	sup.Stop()
	log.Info("Program stopped cleanly")
	return nil
}
