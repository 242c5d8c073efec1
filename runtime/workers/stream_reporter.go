package workers

import (
	"context"
	"time"

	"github.com/konarjg/chat-server/observability"
)

// ReporterWorker logs the stream counters on every tick and once more on shutdown.
type ReporterWorker struct {
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

func NewReporterWorker(monitoring *observability.MonitoringManager, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{monitoring: monitoring, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.monitoring.LogSummary()
			return nil
		case <-ticker.C:
			w.monitoring.LogSummary()
		}
	}
}
