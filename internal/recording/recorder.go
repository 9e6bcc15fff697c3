package recording

import (
	"context"
	"log/slog"
	"time"

	"aircheck/internal/fileutil"
	"aircheck/internal/logging"
	"aircheck/internal/services/ffmpeg"
)

// terminationGrace is how long a capture process gets to exit after SIGTERM
// before it is killed.
const terminationGrace = 2 * time.Second

// Capturer is the slice of the ffmpeg client the recorder needs.
type Capturer interface {
	StartCapture(ctx context.Context, req ffmpeg.CaptureRequest) (ffmpeg.Process, error)
}

// AttemptRequest describes one supervised capture attempt.
type AttemptRequest struct {
	StreamURL  string
	OutputPath string
	// MaxDuration bounds this attempt; zero means unbounded.
	MaxDuration   time.Duration
	CheckInterval time.Duration
	StallTimeout  time.Duration
	MinSize       int64
}

// AttemptResult reports how a capture attempt ended. Exactly one output file
// is created per attempt; undersized output is classified Failed and left
// for the caller to discard.
type AttemptResult struct {
	Outcome  Outcome
	Size     int64
	Duration time.Duration
	// Err carries the classification detail (ErrStallDetected,
	// ErrStreamUnreachable, ErrUndersizedSegment) for logging; it is nil for
	// clean completions.
	Err error
}

// SegmentRecorder runs one capture attempt at a time under growth-monitor
// supervision. Only one capture process is live per recorder.
type SegmentRecorder struct {
	capturer Capturer
	logger   *slog.Logger
}

// NewSegmentRecorder builds a recorder around the given capturer.
func NewSegmentRecorder(capturer Capturer, logger *slog.Logger) *SegmentRecorder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SegmentRecorder{capturer: capturer, logger: logger}
}

// Record launches the capture process and the growth monitor concurrently
// and returns once either finishes. The first event wins: a process exit, a
// monitor verdict, or cancellation. Termination is synchronous; the process
// has fully exited before the result is classified, so the output file is
// settled.
func (r *SegmentRecorder) Record(ctx context.Context, req AttemptRequest) AttemptResult {
	started := time.Now()

	proc, err := r.capturer.StartCapture(ctx, ffmpeg.CaptureRequest{
		StreamURL:  req.StreamURL,
		OutputPath: req.OutputPath,
		Duration:   req.MaxDuration,
	})
	if err != nil {
		r.logger.Warn("capture process failed to start", logging.Error(err))
		return AttemptResult{Outcome: OutcomeFailed, Duration: time.Since(started), Err: ErrStreamUnreachable}
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()

	monitor := NewMonitor(req.OutputPath, req.CheckInterval, req.StallTimeout)
	verdicts := make(chan Verdict, 1)
	go func() {
		if verdict, err := monitor.Watch(monitorCtx); err == nil {
			verdicts <- verdict
		}
	}()

	select {
	case exitErr := <-proc.Done():
		stopMonitor()
		return r.classifyExit(req, exitErr, started)

	case verdict := <-verdicts:
		stopMonitor()
		_ = proc.Stop(terminationGrace)
		if verdict == VerdictMissing {
			r.logger.Warn("capture produced no output file")
			return AttemptResult{Outcome: OutcomeFailed, Duration: time.Since(started), Err: ErrStreamUnreachable}
		}
		return r.classifyStall(req, started)

	case <-ctx.Done():
		stopMonitor()
		_ = proc.Stop(terminationGrace)
		return r.classifyExit(req, ctx.Err(), started)
	}
}

// classifyExit handles a capture process that has already exited. Exit wins
// over a near-simultaneous stall only when the process actually wrote enough
// data; an undersized file is Failed regardless of how the attempt ended.
func (r *SegmentRecorder) classifyExit(req AttemptRequest, exitErr error, started time.Time) AttemptResult {
	size := fileutil.SizeOf(req.OutputPath)
	elapsed := time.Since(started)

	if size >= req.MinSize {
		return AttemptResult{Outcome: OutcomeCompleted, Size: size, Duration: elapsed}
	}
	if size == 0 {
		if exitErr != nil {
			r.logger.Warn("capture exited with no output", logging.Error(exitErr))
		}
		return AttemptResult{Outcome: OutcomeFailed, Size: size, Duration: elapsed, Err: ErrStreamUnreachable}
	}
	return AttemptResult{Outcome: OutcomeFailed, Size: size, Duration: elapsed, Err: ErrUndersizedSegment}
}

func (r *SegmentRecorder) classifyStall(req AttemptRequest, started time.Time) AttemptResult {
	size := fileutil.SizeOf(req.OutputPath)
	elapsed := time.Since(started)

	// Undersized takes precedence over the stall classification for
	// acceptance purposes.
	if size < req.MinSize {
		return AttemptResult{Outcome: OutcomeFailed, Size: size, Duration: elapsed, Err: ErrUndersizedSegment}
	}
	r.logger.Warn("stall detected, capture restarted",
		logging.Int64("bytes", size),
		logging.Duration("after", elapsed),
	)
	return AttemptResult{Outcome: OutcomeStalledRestarted, Size: size, Duration: elapsed, Err: ErrStallDetected}
}
