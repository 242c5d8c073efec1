package observability

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMonitoringManager_Counters(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(slog.Default())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mm.StreamOpened()
			mm.MessageSent()
		}()
	}
	wg.Wait()
	mm.StreamClosed(nil)
	mm.StreamClosed(fmt.Errorf("boom"))
	mm.SendRejected()

	stats := mm.GetLatest()
	req.Equal(uint64(10), stats.StreamsOpened)
	req.Equal(uint64(2), stats.StreamsClosed)
	req.Equal(uint64(1), stats.StreamsAborted)
	req.Equal(uint64(8), stats.Active())
	req.Equal(uint64(10), stats.MessagesSent)
	req.Equal(uint64(1), stats.SendsRejected)
}

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	req := require.New(t)
	shutdown, err := Setup(t.Context(), "chat-server", "")
	req.NoError(err)
	req.NoError(shutdown(t.Context()))
}
