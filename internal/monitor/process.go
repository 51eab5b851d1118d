package monitor

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessMonitor reports resource usage of a single process.
type ProcessMonitor struct {
	mu   sync.Mutex
	proc *process.Process
}

// NewProcessMonitor watches the current process.
func NewProcessMonitor() (*ProcessMonitor, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open process: %w", err)
	}
	return &ProcessMonitor{proc: p}, nil
}

func (m *ProcessMonitor) Name() string {
	return "process"
}

func (m *ProcessMonitor) Collect() (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mem, err := m.proc.MemoryInfo()
	if err != nil {
		return nil, fmt.Errorf("memory info: %w", err)
	}

	// Percent(0) is relative to the previous call, so the first sample is 0
	cpuPercent, err := m.proc.Percent(0)
	if err != nil {
		return nil, fmt.Errorf("cpu percent: %w", err)
	}

	threads, err := m.proc.NumThreads()
	if err != nil {
		return nil, fmt.Errorf("threads: %w", err)
	}

	var uptime int64
	if created, err := m.proc.CreateTime(); err == nil {
		uptime = int64(time.Since(time.UnixMilli(created)).Seconds())
	}

	return &ProcessState{
		PID:        m.proc.Pid,
		RSSBytes:   mem.RSS,
		CPUPercent: cpuPercent,
		Threads:    threads,
		Goroutines: runtime.NumGoroutine(),
		UptimeSec:  uptime,
	}, nil
}
