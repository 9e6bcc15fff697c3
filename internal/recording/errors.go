package recording

import "errors"

// Error kinds surfaced by the supervisor. StallDetected and UndersizedSegment
// are recovered internally via the restart path and only appear in logs; the
// remaining kinds are terminal and propagate through Result.Err.
var (
	ErrStreamUnreachable               = errors.New("stream unreachable")
	ErrStallDetected                   = errors.New("stall detected")
	ErrUndersizedSegment               = errors.New("undersized segment")
	ErrAttemptLimitExceeded            = errors.New("attempt limit exceeded")
	ErrConsecutiveFailureLimitExceeded = errors.New("consecutive failure limit exceeded")
	ErrMergeFailure                    = errors.New("merge failure")
	ErrNoSegments                      = errors.New("no usable segments recorded")
)
