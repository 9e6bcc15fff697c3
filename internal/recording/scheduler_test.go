package recording

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testJob() Job {
	return Job{
		Station:                "jazzfm",
		StreamURL:              "https://stream.example.org/live.mp3",
		OutputPath:             "/tmp/out.mp3",
		TargetDuration:         time.Hour,
		StallTimeout:           60 * time.Second,
		CheckInterval:          5 * time.Second,
		MinSegmentSize:         1000,
		MaxRestartAttempts:     100,
		MaxConsecutiveFailures: 3,
	}
}

func newTestScheduler(job Job) (*Scheduler, *[]time.Duration) {
	s := NewScheduler(job)
	var slept []time.Duration
	s.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return s, &slept
}

func accepted(size int64) AttemptResult {
	return AttemptResult{Outcome: OutcomeCompleted, Size: size}
}

func failed() AttemptResult {
	return AttemptResult{Outcome: OutcomeFailed, Err: ErrStreamUnreachable}
}

func TestSchedulerAcceptsAndResetsCounters(t *testing.T) {
	s, _ := newTestScheduler(testJob())
	ctx := context.Background()

	s.Begin()
	s.Observe(ctx, failed())
	s.Begin()
	s.Observe(ctx, failed())
	if s.ConsecutiveFailures() != 2 {
		t.Fatalf("expected 2 consecutive failures, got %d", s.ConsecutiveFailures())
	}

	s.Begin()
	decision := s.Observe(ctx, accepted(5000))
	if !decision.Accepted {
		t.Fatal("expected acceptance")
	}
	if s.ConsecutiveFailures() != 0 {
		t.Fatalf("consecutive failures must reset on acceptance, got %d", s.ConsecutiveFailures())
	}
	if s.Attempts() != 3 {
		t.Fatalf("total attempts must stay monotonic, got %d", s.Attempts())
	}
}

func TestSchedulerBackoffResetsAfterAcceptance(t *testing.T) {
	s, slept := newTestScheduler(testJob())
	ctx := context.Background()

	s.Begin()
	s.Observe(ctx, failed())
	s.Begin()
	s.Observe(ctx, failed())
	if len(*slept) != 2 || (*slept)[0] != time.Second || (*slept)[1] != 2*time.Second {
		t.Fatalf("unexpected backoff sequence: %v", *slept)
	}

	s.Begin()
	s.Observe(ctx, accepted(5000))

	s.Begin()
	s.Observe(ctx, failed())
	if last := (*slept)[len(*slept)-1]; last != time.Second {
		t.Fatalf("backoff must reset to floor after acceptance, got %s", last)
	}
}

func TestSchedulerStalledSegmentAcceptedWhenBigEnough(t *testing.T) {
	s, _ := newTestScheduler(testJob())
	decision := s.Observe(context.Background(), AttemptResult{
		Outcome: OutcomeStalledRestarted,
		Size:    4096,
		Err:     ErrStallDetected,
	})
	if !decision.Accepted {
		t.Fatal("stalled segment above minimum size must be accepted")
	}
}

func TestSchedulerUndersizedRejectedRegardlessOfOrigin(t *testing.T) {
	for _, outcome := range []Outcome{OutcomeCompleted, OutcomeStalledRestarted, OutcomeFailed} {
		s, _ := newTestScheduler(testJob())
		s.Begin()
		decision := s.Observe(context.Background(), AttemptResult{Outcome: outcome, Size: 500})
		if decision.Accepted {
			t.Fatalf("500-byte segment with outcome %s must not be accepted", outcome)
		}
	}
}

func TestSchedulerTerminatesOnConsecutiveFailureCeiling(t *testing.T) {
	s, _ := newTestScheduler(testJob())
	ctx := context.Background()

	var decision Decision
	for i := 0; i < 3; i++ {
		s.Begin()
		decision = s.Observe(ctx, failed())
	}
	if !decision.Terminate {
		t.Fatal("expected termination after three consecutive failures")
	}
	if !errors.Is(decision.Reason, ErrConsecutiveFailureLimitExceeded) {
		t.Fatalf("unexpected reason: %v", decision.Reason)
	}
	if s.State() != StateTerminated {
		t.Fatalf("expected terminated state, got %s", s.State())
	}
}

func TestSchedulerTerminatesOnAttemptCeiling(t *testing.T) {
	job := testJob()
	job.MaxRestartAttempts = 2
	job.MaxConsecutiveFailures = 10
	s, _ := newTestScheduler(job)
	ctx := context.Background()

	s.Begin()
	s.Observe(ctx, accepted(5000))
	s.Begin()
	decision := s.Observe(ctx, failed())
	if !decision.Terminate || !errors.Is(decision.Reason, ErrAttemptLimitExceeded) {
		t.Fatalf("expected attempt limit termination, got %+v", decision)
	}

	if _, ok := s.Begin(); ok {
		t.Fatal("Begin must refuse attempts after termination")
	}
}

func TestSchedulerBeginStopsAtAttemptCeiling(t *testing.T) {
	job := testJob()
	job.MaxRestartAttempts = 1
	s, _ := newTestScheduler(job)

	if _, ok := s.Begin(); !ok {
		t.Fatal("first attempt should be allowed")
	}
	s.Observe(context.Background(), accepted(5000))
	if _, ok := s.Begin(); ok {
		t.Fatal("attempt past the ceiling should be refused")
	}
}

func TestSchedulerSleepCancellationTerminates(t *testing.T) {
	s := NewScheduler(testJob())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.Begin()
	decision := s.Observe(ctx, failed())
	if !decision.Terminate {
		t.Fatal("cancelled backoff sleep must terminate the loop")
	}
	if !errors.Is(decision.Reason, context.Canceled) {
		t.Fatalf("unexpected reason: %v", decision.Reason)
	}
}
