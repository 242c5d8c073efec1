package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const gcDiscardRatio = 0.5

// BadgerGCWorker reclaims value log space on a fixed interval.
type BadgerGCWorker struct {
	db       *badger.DB
	log      *slog.Logger
	interval time.Duration
}

func NewBadgerGCWorker(db *badger.DB, log *slog.Logger, interval time.Duration) *BadgerGCWorker {
	return &BadgerGCWorker{db: db, log: log, interval: interval}
}

func (w *BadgerGCWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rewritten := w.collect(ctx)
			w.log.Debug("Value log GC pass done", "rewritten", rewritten)
		}
	}
}

// collect rewrites files until Badger reports nothing left to do.
func (w *BadgerGCWorker) collect(ctx context.Context) int {
	rewritten := 0
	for ctx.Err() == nil {
		err := w.db.RunValueLogGC(gcDiscardRatio)
		if err == nil {
			rewritten++
			continue
		}
		if !stderrors.Is(err, badger.ErrNoRewrite) {
			w.log.Warn("Value log GC failed", "error", err)
		}
		break
	}
	return rewritten
}
