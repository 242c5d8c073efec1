package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	pb "github.com/konarjg/chat-server/proto/chat"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:8080"`
	Name          string `env:"CHAT_USER,required=true"`
	Password      string `env:"CHAT_PASSWORD,required=true"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run logs in and tails the user's ChatStream. Payloads are end-to-end
// encrypted, so only their metadata is printed.
func run() (int, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.ServerAddress,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(pb.Codec{})),
	)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	tokens, err := pb.NewAuthServiceClient(conn).Login(ctx, &pb.LoginRequest{Name: config.Name, Password: config.Password})
	if err != nil {
		return exitRuntime, fmt.Errorf("login failed: %w", err)
	}

	streamCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tokens.AccessToken)
	stream, err := pb.NewChatServiceClient(conn).ChatStream(streamCtx)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open stream: %w", err)
	}
	log.Info("Connected, waiting for messages (Ctrl+C to quit)", "server", config.ServerAddress, "user", config.Name)

	for {
		resp, err := stream.Recv()
		if err != nil {
			// Normal exit if the user triggered a shutdown.
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}
		if msg := resp.GetNewMessage(); msg != nil {
			log.Info(fmt.Sprintf("[%s] chat %d #%d from %d (%d bytes)",
				msg.SentAt.Format(time.TimeOnly),
				msg.ChatId,
				msg.SequenceNo,
				msg.SenderId,
				len(msg.AesEncryptedContent),
			))
		}
	}
}
