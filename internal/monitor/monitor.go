// Package monitor samples runtime statistics of the serving process and
// its host for the status endpoint.
package monitor

import "time"

type Monitor interface {
	Name() string
	Collect() (any, error)
}

type CPUState struct {
	UsagePercent float64 `json:"usage_percent"`
	Cores        int     `json:"cores"`
}

type MemoryState struct {
	UsedBytes    uint64  `json:"used_bytes"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

type DiskState struct {
	UsedBytes    uint64  `json:"used_bytes"`
	TotalBytes   uint64  `json:"total_bytes"`
	UsagePercent float64 `json:"usage_percent"`
}

// StorageState maps a watched path (the artifacts directory) to its volume usage.
type StorageState map[string]DiskState

// ProcessState describes the calburn process itself.
type ProcessState struct {
	PID        int32   `json:"pid"`
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Threads    int32   `json:"threads"`
	Goroutines int     `json:"goroutines"`
	UptimeSec  int64   `json:"uptime_sec"`
}

type Snapshot struct {
	Process   ProcessState `json:"process"`
	CPU       CPUState     `json:"cpu"`
	Memory    MemoryState  `json:"memory"`
	Storage   StorageState `json:"storage"`
	Timestamp time.Time    `json:"timestamp"`
}

func (s *Snapshot) Clone() *Snapshot {
	clone := *s
	clone.Storage = make(StorageState, len(s.Storage))
	for k, v := range s.Storage {
		clone.Storage[k] = v
	}
	return &clone
}
