package recording

import (
	"context"
	"os"
	"time"
)

// Verdict is the growth monitor's classification of a watched output file.
type Verdict int

const (
	// VerdictStalled means the file stopped growing for a full stall-timeout
	// window.
	VerdictStalled Verdict = iota
	// VerdictMissing means the capture process never produced the file.
	VerdictMissing
)

func (v Verdict) String() string {
	switch v {
	case VerdictStalled:
		return "stalled"
	case VerdictMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Monitor watches an output file for growth by sampling its size on a fixed
// interval. It performs no side effects beyond metadata reads.
type Monitor struct {
	Path          string
	CheckInterval time.Duration
	StallTimeout  time.Duration

	now func() time.Time
}

// NewMonitor builds a growth monitor for the given output path.
func NewMonitor(path string, checkInterval, stallTimeout time.Duration) *Monitor {
	return &Monitor{
		Path:          path,
		CheckInterval: checkInterval,
		StallTimeout:  stallTimeout,
		now:           time.Now,
	}
}

// Watch polls until the file stalls or turns out to be missing, or the
// context is cancelled. A stall is declared only once the size has not
// increased for a full stall-timeout window; a missing file is declared on
// the first sample, one check interval after launch.
func (m *Monitor) Watch(ctx context.Context) (Verdict, error) {
	ticker := time.NewTicker(m.CheckInterval)
	defer ticker.Stop()

	var lastSize int64
	lastGrowth := m.now()
	seen := false

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}

		info, err := os.Stat(m.Path)
		if err != nil {
			if !seen {
				return VerdictMissing, nil
			}
			// File vanished mid-capture; let the stall window decide.
			if m.now().Sub(lastGrowth) >= m.StallTimeout {
				return VerdictStalled, nil
			}
			continue
		}

		seen = true
		size := info.Size()
		if size > lastSize {
			lastSize = size
			lastGrowth = m.now()
			continue
		}
		if m.now().Sub(lastGrowth) < m.StallTimeout {
			continue
		}
		// A file that never received a byte counts as absent output, not a
		// stalled recording.
		if size == 0 {
			return VerdictMissing, nil
		}
		return VerdictStalled, nil
	}
}
