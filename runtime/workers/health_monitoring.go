package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/konarjg/chat-server/contract"
	"github.com/shirou/gopsutil/process"
)

// Health is one sample of the server process.
type Health struct {
	CPUPercent    float64
	MemoryPercent float32
	RSSBytes      uint64
	Online        int
}

// HealthMonitoringWorker periodically logs resource usage of the server
// process together with the number of live streams.
type HealthMonitoringWorker struct {
	log            *slog.Logger
	presence       contract.IPresence
	metricInterval time.Duration
	pid            int32
}

func NewHealthMonitoringWorker(log *slog.Logger, presence contract.IPresence, metricInterval time.Duration) *HealthMonitoringWorker {
	return &HealthMonitoringWorker{
		log:            log,
		presence:       presence,
		metricInterval: metricInterval,
		pid:            int32(os.Getpid()),
	}
}

func (w *HealthMonitoringWorker) Run(ctx context.Context) error {
	p, err := w.process()
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping health monitoring")
			return nil
		case <-ticker.C:
			h, err := w.sample(p)
			if err != nil {
				w.log.Error("Error while sampling process", "err", err)
				continue
			}
			w.log.Info("Health",
				"cpu_percent", h.CPUPercent,
				"memory_percent", h.MemoryPercent,
				"rss_bytes", h.RSSBytes,
				"online", h.Online)
		}
	}
}

func (w *HealthMonitoringWorker) sample(p *process.Process) (Health, error) {
	cpu, err := p.CPUPercent()
	if err != nil {
		return Health{}, err
	}
	ram, err := p.MemoryPercent()
	if err != nil {
		return Health{}, err
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return Health{}, err
	}
	return Health{
		CPUPercent:    cpu,
		MemoryPercent: ram,
		RSSBytes:      mem.RSS,
		Online:        w.presence.Online(),
	}, nil
}

func (w *HealthMonitoringWorker) process() (*process.Process, error) {
	return process.NewProcess(w.pid)
}
