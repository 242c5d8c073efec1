package main

import "time"

type Config struct {
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`

	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	JWTIssuer            string        `env:"JWT_ISSUER,default=chat-server"`
	JWTAudience          string        `env:"JWT_AUDIENCE,default=chat-clients"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=15m"`
	RefreshTokenDuration time.Duration `env:"REFRESH_TOKEN_DURATION,default=168h"`

	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	ReplayBatchSize      int           `env:"REPLAY_BATCH_SIZE,default=256"`
	HandshakeTimeout     time.Duration `env:"HANDSHAKE_TIMEOUT,default=10s"`
	AppendMaxRetries     uint          `env:"APPEND_MAX_RETRIES,default=5"`
	AppendRetryInterval  time.Duration `env:"APPEND_RETRY_INTERVAL,default=20ms"`
	MaxPageSize          int           `env:"MAX_PAGE_SIZE,default=100"`
	MaxCiphertextBytes   int           `env:"MAX_CIPHERTEXT_BYTES,default=65536"`

	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=2s"`
	GCInterval      time.Duration `env:"GC_INTERVAL,default=10m"`
	JanitorInterval time.Duration `env:"JANITOR_INTERVAL,default=1h"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=1m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	// BACKLOG_WARN_PERCENT is the outbound buffer fill level logged as a warning
	BacklogWarnPercent int `env:"BACKLOG_WARN_PERCENT,default=80"`

	// OTEL_ENDPOINT is an OTLP/HTTP URL. Tracing is off when empty.
	OtelEndpoint string `env:"OTEL_ENDPOINT"`
}
