package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/konarjg/chat-server/contract"
)

// OutboundBacklogWorker periodically reports connections whose outbound buffer
// is filling up. Reading len and cap of a channel is non-blocking, so sampling
// never interferes with delivery. A slow reader above the threshold is about
// to fall back to replay.
type OutboundBacklogWorker struct {
	log            *slog.Logger
	source         contract.IBacklogSource
	warnPercent    int
	metricInterval time.Duration
}

func NewOutboundBacklogWorker(log *slog.Logger, source contract.IBacklogSource,
	warnPercent int, metricInterval time.Duration) *OutboundBacklogWorker {
	return &OutboundBacklogWorker{
		log:            log,
		source:         source,
		warnPercent:    warnPercent,
		metricInterval: metricInterval,
	}
}

func (w *OutboundBacklogWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping backlog sampling")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

// sample returns how many connections crossed the threshold.
func (w *OutboundBacklogWorker) sample() int {
	backlogs := w.source.Backlogs()
	congested := 0
	for _, b := range backlogs {
		if b.Percent() < w.warnPercent {
			continue
		}
		congested++
		w.log.Warn("Outbound buffer filling up",
			"user_id", b.UserID,
			"length", b.Length,
			"capacity", b.Capacity)
	}
	w.log.Debug("Outbound backlog sampled", "connections", len(backlogs), "congested", congested)
	return congested
}
