package observability

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// StreamStats is a snapshot of the ChatStream counters.
type StreamStats struct {
	StreamsOpened  uint64
	StreamsClosed  uint64
	StreamsAborted uint64
	MessagesSent   uint64
	SendsRejected  uint64
	Uptime         time.Duration
}

// Active is the number of streams currently open.
func (s StreamStats) Active() uint64 {
	return s.StreamsOpened - s.StreamsClosed
}

// MonitoringManager counts stream activity. All methods are safe for concurrent use.
type MonitoringManager struct {
	log       *slog.Logger
	startedAt time.Time

	streamsOpened  atomic.Uint64
	streamsClosed  atomic.Uint64
	streamsAborted atomic.Uint64
	messagesSent   atomic.Uint64
	sendsRejected  atomic.Uint64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log, startedAt: time.Now()}
}

func (mm *MonitoringManager) StreamOpened() {
	mm.streamsOpened.Add(1)
}

// StreamClosed records the end of a stream. A non nil err counts as aborted.
func (mm *MonitoringManager) StreamClosed(err error) {
	mm.streamsClosed.Add(1)
	if err != nil {
		mm.streamsAborted.Add(1)
	}
}

func (mm *MonitoringManager) MessageSent() {
	mm.messagesSent.Add(1)
}

func (mm *MonitoringManager) SendRejected() {
	mm.sendsRejected.Add(1)
}

func (mm *MonitoringManager) GetLatest() StreamStats {
	return StreamStats{
		StreamsOpened:  mm.streamsOpened.Load(),
		StreamsClosed:  mm.streamsClosed.Load(),
		StreamsAborted: mm.streamsAborted.Load(),
		MessagesSent:   mm.messagesSent.Load(),
		SendsRejected:  mm.sendsRejected.Load(),
		Uptime:         time.Since(mm.startedAt),
	}
}

func (mm *MonitoringManager) LogSummary() {
	stats := mm.GetLatest()
	mm.log.Info("Stream summary",
		"active", stats.Active(),
		"opened", stats.StreamsOpened,
		"aborted", stats.StreamsAborted,
		"messages_sent", stats.MessagesSent,
		"sends_rejected", stats.SendsRejected,
		"uptime", stats.Uptime.Round(time.Second))
}
