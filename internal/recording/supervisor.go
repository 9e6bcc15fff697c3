package recording

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"aircheck/internal/logging"
	"aircheck/internal/services"
	"aircheck/internal/services/ffmpeg"
)

// Status is the overall outcome of a recording run.
type Status string

const (
	// StatusCompleted means the merged recording exists at the output path.
	StatusCompleted Status = "completed"
	// StatusDegraded means segments were captured but the merge failed; the
	// raw segment files remain in the segment directory.
	StatusDegraded Status = "degraded"
	// StatusFailed means no usable audio was captured.
	StatusFailed Status = "failed"
)

// Result is the structured outcome handed to the caller. Terminal error
// kinds land in Err; they are never raised as panics.
type Result struct {
	Status           Status
	OutputPath       string
	SegmentDir       string
	Segments         []Segment
	RecordedBytes    int64
	RecordedDuration time.Duration
	Attempts         int
	Err              error
}

// attemptRecorder and segmentMerger let tests drive the supervisor loop
// without real capture processes.
type attemptRecorder interface {
	Record(ctx context.Context, req AttemptRequest) AttemptResult
}

type segmentMerger interface {
	Merge(ctx context.Context, job Job, segments []Segment, tags map[string]string) (string, error)
}

// Option configures the supervisor.
type Option func(*Supervisor)

// WithRecorder injects a custom segment recorder (primarily for tests).
func WithRecorder(recorder attemptRecorder) Option {
	return func(s *Supervisor) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithMerger injects a custom merger (primarily for tests).
func WithMerger(merger segmentMerger) Option {
	return func(s *Supervisor) {
		if merger != nil {
			s.merger = merger
		}
	}
}

// WithClock injects a time source (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		if now != nil {
			s.now = now
		}
	}
}

// Supervisor owns one recording job: it runs capture attempts under growth
// monitoring, feeds outcomes through the restart scheduler, and merges the
// accepted segments when the loop ends. One sequential loop per job; at most
// one capture process is live at any instant.
type Supervisor struct {
	job      Job
	tags     map[string]string
	recorder attemptRecorder
	merger   segmentMerger
	logger   *slog.Logger
	now      func() time.Time
}

// NewSupervisor wires a supervisor around the ffmpeg client. Tags are
// applied to the merged container; a nil map is allowed.
func NewSupervisor(job Job, client *ffmpeg.Client, tags map[string]string, logger *slog.Logger, opts ...Option) *Supervisor {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Supervisor{
		job:      job,
		tags:     tags,
		recorder: NewSegmentRecorder(client, logger),
		merger:   NewMerger(client, logger),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the supervisor loop until the target duration is reached, a
// ceiling is hit, or the context is cancelled. Cancellation terminates the
// live capture gracefully and still merges whatever was accepted. The
// returned error mirrors Result.Err for StatusFailed runs and is nil
// otherwise.
func (s *Supervisor) Run(ctx context.Context) (Result, error) {
	if err := s.job.Validate(); err != nil {
		return Result{Status: StatusFailed, Err: err}, err
	}

	segmentDir := s.job.SegmentDir()
	if err := os.MkdirAll(segmentDir, 0o755); err != nil {
		err = fmt.Errorf("create segment directory: %w", err)
		return Result{Status: StatusFailed, Err: err}, err
	}

	// The working directory is exclusive to one job instance.
	lock := flock.New(filepath.Join(segmentDir, ".lock"))
	locked, err := lock.TryLock()
	if err == nil && !locked {
		err = fmt.Errorf("segment directory %s is locked by another recording", segmentDir)
	}
	if err != nil {
		err = services.Wrap(services.ErrConfiguration, "supervisor", "lock", "", err)
		return Result{Status: StatusFailed, Err: err}, err
	}
	defer func() {
		_ = lock.Unlock()
	}()

	scheduler := NewScheduler(s.job)
	start := s.now()
	deadline := start.Add(s.job.TargetDuration)

	s.logger.Info("recording started",
		logging.String("output", s.job.OutputPath),
		logging.Duration("target", s.job.TargetDuration),
	)

	state := supervisorState{}
	var terminal error

	for s.now().Before(deadline) && ctx.Err() == nil {
		attempt, ok := scheduler.Begin()
		if !ok {
			terminal = ErrAttemptLimitExceeded
			break
		}

		remaining := deadline.Sub(s.now())
		if remaining <= 0 {
			break
		}
		maxDuration := remaining
		if s.job.SegmentMaxDuration > 0 && s.job.SegmentMaxDuration < maxDuration {
			maxDuration = s.job.SegmentMaxDuration
		}

		attemptCtx := services.WithAttempt(ctx, attempt)
		attemptLogger := logging.WithContext(attemptCtx, s.logger)
		segmentPath := s.job.SegmentPath(attempt)

		attemptLogger.Info("capture attempt started",
			logging.String(logging.FieldSegment, filepath.Base(segmentPath)),
			logging.Duration("remaining", remaining),
		)

		result := s.recorder.Record(attemptCtx, AttemptRequest{
			StreamURL:     s.job.StreamURL,
			OutputPath:    segmentPath,
			MaxDuration:   maxDuration,
			CheckInterval: s.job.CheckInterval,
			StallTimeout:  s.job.StallTimeout,
			MinSize:       s.job.MinSegmentSize,
		})

		decision := scheduler.Observe(ctx, result)
		if decision.Accepted {
			segment := Segment{
				Path:        segmentPath,
				StartOffset: state.recordedBytes,
				Size:        result.Size,
				Duration:    result.Duration,
				Outcome:     result.Outcome,
			}
			state.accept(segment)
			attemptLogger.Info("segment accepted",
				logging.String(logging.FieldOutcome, string(result.Outcome)),
				logging.Int64("bytes", result.Size),
				logging.Duration("duration", result.Duration.Round(time.Second)),
			)
			continue
		}

		// Rejected output stays out of the merge set; delete the file so a
		// later attempt number cannot be confused with audio worth keeping.
		_ = os.Remove(segmentPath)
		attemptLogger.Warn("segment rejected",
			logging.Error(result.Err),
			logging.Int64("bytes", result.Size),
			logging.Int("consecutive_failures", scheduler.ConsecutiveFailures()),
			logging.Duration("backoff", decision.Delay),
		)

		if decision.Terminate {
			terminal = decision.Reason
			break
		}
	}

	if ctx.Err() != nil && terminal == nil {
		// Cancellation behaves like hitting a ceiling: keep what we have.
		s.logger.Info("recording cancelled, merging accepted segments")
	}

	return s.finish(ctx, scheduler, state, terminal)
}

func (s *Supervisor) finish(ctx context.Context, scheduler *Scheduler, state supervisorState, terminal error) (Result, error) {
	result := Result{
		SegmentDir:       s.job.SegmentDir(),
		Segments:         state.segments,
		RecordedBytes:    state.recordedBytes,
		RecordedDuration: state.recordedDuration,
		Attempts:         scheduler.Attempts(),
		Err:              terminal,
	}

	if len(state.segments) == 0 {
		if result.Err == nil {
			result.Err = ErrNoSegments
		}
		result.Status = StatusFailed
		s.logger.Error("recording failed, no usable segments", logging.Error(result.Err))
		return result, result.Err
	}

	// Merge must not be interrupted by the run context; a cancelled run
	// still owes the caller its accepted audio.
	mergeCtx := context.WithoutCancel(ctx)
	output, err := s.merger.Merge(mergeCtx, s.job, state.segments, s.tags)
	if err != nil {
		result.Status = StatusDegraded
		result.Err = err
		s.logger.Error("merge failed, segments preserved",
			logging.Error(err),
			logging.String("segment_dir", result.SegmentDir),
		)
		return result, nil
	}

	result.Status = StatusCompleted
	result.OutputPath = output
	s.cleanupSegments()
	result.SegmentDir = ""

	coverage := 0.0
	if s.job.TargetDuration > 0 {
		coverage = state.recordedDuration.Seconds() / s.job.TargetDuration.Seconds() * 100
	}
	s.logger.Info("recording complete",
		logging.String("output", output),
		logging.Int("segments", len(state.segments)),
		logging.Int64("bytes", state.recordedBytes),
		logging.Float64("coverage_percent", coverage),
	)
	return result, nil
}

// cleanupSegments removes the segment working directory after a successful
// merge.
func (s *Supervisor) cleanupSegments() {
	dir := s.job.SegmentDir()
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Warn("could not clean up segment directory",
			logging.String("segment_dir", dir),
			logging.Error(err),
		)
	}
}

// supervisorState accumulates the loop's accepted segments. Only the
// supervisor loop mutates it.
type supervisorState struct {
	segments         []Segment
	recordedBytes    int64
	recordedDuration time.Duration
}

func (st *supervisorState) accept(segment Segment) {
	st.segments = append(st.segments, segment)
	st.recordedBytes += segment.Size
	st.recordedDuration += segment.Duration
}
