package recording

import (
	"context"
	"time"
)

// State is the restart scheduler's position in its lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateAttempting State = "attempting"
	StateTerminated State = "terminated"
)

// Decision is the scheduler's ruling on a finished capture attempt.
type Decision struct {
	Accepted bool
	// Delay is the backoff applied before the next attempt on rejection.
	Delay time.Duration
	// Terminate signals the supervisor loop must end; Reason carries the
	// terminal error kind.
	Terminate bool
	Reason    error
}

// Scheduler decides whether to retry after a failed or stalled segment. It
// tracks the consecutive-failure count, the monotonic total attempt count,
// and the exponential backoff delay, and enforces both ceilings.
type Scheduler struct {
	maxAttempts    int
	maxConsecutive int
	minSegmentSize int64

	state       State
	attempts    int
	consecutive int
	delay       backoff

	sleep func(ctx context.Context, d time.Duration) error
}

// NewScheduler builds a scheduler from the job's ceilings.
func NewScheduler(job Job) *Scheduler {
	return &Scheduler{
		maxAttempts:    job.MaxRestartAttempts,
		maxConsecutive: job.MaxConsecutiveFailures,
		minSegmentSize: job.MinSegmentSize,
		state:          StateIdle,
		delay:          newBackoff(),
		sleep:          sleepCtx,
	}
}

// Begin registers a new capture attempt and returns its 1-based number.
// It reports false once the total attempt ceiling is exhausted.
func (s *Scheduler) Begin() (int, bool) {
	if s.state == StateTerminated {
		return s.attempts, false
	}
	if s.attempts >= s.maxAttempts {
		s.state = StateTerminated
		return s.attempts, false
	}
	s.attempts++
	s.state = StateAttempting
	return s.attempts, true
}

// Observe feeds an attempt result to the state machine. Accepted segments
// reset the consecutive-failure counter and the backoff delay. Rejections
// increment the counter, sleep the backoff delay, and terminate the loop
// once a ceiling is hit. The total attempt counter never resets.
func (s *Scheduler) Observe(ctx context.Context, result AttemptResult) Decision {
	if s.accepts(result) {
		s.consecutive = 0
		s.delay.Reset()
		s.state = StateIdle
		return Decision{Accepted: true}
	}

	s.consecutive++
	if s.consecutive >= s.maxConsecutive {
		s.state = StateTerminated
		return Decision{Terminate: true, Reason: ErrConsecutiveFailureLimitExceeded}
	}
	if s.attempts >= s.maxAttempts {
		s.state = StateTerminated
		return Decision{Terminate: true, Reason: ErrAttemptLimitExceeded}
	}

	delay := s.delay.Next()
	if err := s.sleep(ctx, delay); err != nil {
		s.state = StateTerminated
		return Decision{Delay: delay, Terminate: true, Reason: err}
	}
	s.state = StateIdle
	return Decision{Delay: delay}
}

// accepts applies the acceptance rule: a segment is kept when it reached the
// minimum size, whatever ended the attempt. Undersized output is rejected
// even when the attempt otherwise completed.
func (s *Scheduler) accepts(result AttemptResult) bool {
	if result.Outcome == OutcomeFailed {
		return false
	}
	return result.Size >= s.minSegmentSize
}

// State exposes the machine position, primarily for tests and status output.
func (s *Scheduler) State() State { return s.state }

// Attempts returns the monotonic total attempt count.
func (s *Scheduler) Attempts() int { return s.attempts }

// ConsecutiveFailures returns the failures observed since the last accepted
// segment.
func (s *Scheduler) ConsecutiveFailures() int { return s.consecutive }

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
