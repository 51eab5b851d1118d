package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Aggregator samples its monitors on an interval and serves the latest
// snapshot without blocking request handlers on system calls.
type Aggregator struct {
	monitors []Monitor
	state    *Snapshot
	interval time.Duration
	mu       sync.RWMutex
	done     chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

func NewAggregator(monitors []Monitor, interval time.Duration, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		monitors: monitors,
		state:    &Snapshot{Storage: make(StorageState)},
		interval: interval,
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Defaults builds the standard monitor set. The process monitor is
// skipped with a warning if the platform cannot open the current process.
func Defaults(storagePaths []string, logger *slog.Logger) []Monitor {
	monitors := []Monitor{NewCPUMonitor(), NewMemoryMonitor(), NewStorageMonitor(storagePaths)}

	proc, err := NewProcessMonitor()
	if err != nil {
		logger.Warn("process monitor unavailable", "error", err)
		return monitors
	}
	return append(monitors, proc)
}

func (a *Aggregator) Start(ctx context.Context) {
	// Initial collection
	a.collect()

	go a.runLoop(ctx)

	a.logger.Info("monitor started", "interval", a.interval, "monitors", len(a.monitors))
}

func (a *Aggregator) Stop() {
	a.stopOnce.Do(func() {
		close(a.done)
		a.logger.Info("monitor stopped")
	})
}

// Snapshot returns a copy of the latest collected state.
func (a *Aggregator) Snapshot() *Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Clone()
}

func (a *Aggregator) runLoop(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.collect()
		case <-ctx.Done():
			return
		case <-a.done:
			return
		}
	}
}

func (a *Aggregator) collect() {
	next := &Snapshot{
		Timestamp: time.Now(),
		Storage:   make(StorageState),
	}

	for _, m := range a.monitors {
		data, err := m.Collect()
		if err != nil {
			a.logger.Warn("monitor collection failed",
				"monitor", m.Name(),
				"error", err,
			)
			continue
		}

		switch v := data.(type) {
		case *CPUState:
			next.CPU = *v
		case *MemoryState:
			next.Memory = *v
		case StorageState:
			next.Storage = v
		case *ProcessState:
			next.Process = *v
		}
	}

	a.mu.Lock()
	a.state = next
	a.mu.Unlock()
}
