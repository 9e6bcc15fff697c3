package recording

import "time"

// Outcome classifies how a capture attempt ended.
type Outcome string

const (
	// OutcomeCompleted means the capture process exited on its own or the
	// segment reached its maximum duration.
	OutcomeCompleted Outcome = "completed"
	// OutcomeStalledRestarted means the growth monitor fired and the capture
	// process was forcibly terminated; the truncated output may still be
	// usable.
	OutcomeStalledRestarted Outcome = "stalled_restarted"
	// OutcomeFailed means the attempt produced no usable output.
	OutcomeFailed Outcome = "failed"
)

// Segment is one continuous output file produced by a single capture
// attempt. Never mutated after creation.
type Segment struct {
	Path string
	// StartOffset is the byte offset of this segment within the merged
	// recording. Offsets are strictly increasing and contiguous in capture
	// order.
	StartOffset int64
	Size        int64
	Duration    time.Duration
	Outcome     Outcome
}
