package history

import "time"

// Run statuses. A run starts as StatusRecording and is finalized with one of
// the supervisor outcomes.
const (
	StatusRecording = "recording"
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
	StatusFailed    = "failed"
)

// Run is one recording run, live or finished.
type Run struct {
	ID         int64
	RunID      string
	Station    string
	StreamURL  string
	OutputPath string
	Status     string
	StartedAt  time.Time
	// FinishedAt is zero while the run is still recording.
	FinishedAt time.Time
	Segments   int
	Bytes      int64
	// Seconds is the recorded audio duration in whole seconds.
	Seconds      int64
	Attempts     int
	ErrorMessage string
}

// Finished reports whether the run has been finalized.
func (r Run) Finished() bool {
	return r.Status != StatusRecording
}

// Outcome carries the final figures written when a run ends.
type Outcome struct {
	Status       string
	OutputPath   string
	Segments     int
	Bytes        int64
	Seconds      int64
	Attempts     int
	ErrorMessage string
}
