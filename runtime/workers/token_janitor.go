package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/konarjg/chat-server/repositories"
)

// TokenJanitorWorker purges expired refresh tokens.
type TokenJanitorWorker struct {
	tokens   repositories.IRefreshTokenRepository
	log      *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func NewTokenJanitorWorker(tokens repositories.IRefreshTokenRepository, log *slog.Logger, interval time.Duration) *TokenJanitorWorker {
	return &TokenJanitorWorker{tokens: tokens, log: log, interval: interval, now: time.Now}
}

// Run returns the repository error so the supervisor restarts the janitor.
func (w *TokenJanitorWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			deleted, err := w.tokens.DeleteExpired(w.now())
			if err != nil {
				return err
			}
			if deleted > 0 {
				w.log.Info("Expired refresh tokens purged", "count", deleted)
			}
		}
	}
}
