package recording

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"aircheck/internal/config"
)

// Job describes one resilient recording run. Immutable after creation; the
// supervisor owns it for the lifetime of the run.
type Job struct {
	Station        string
	StreamURL      string
	TargetDuration time.Duration
	// OutputPath is the final merged recording location.
	OutputPath string

	StallTimeout           time.Duration
	CheckInterval          time.Duration
	MinSegmentSize         int64
	MaxRestartAttempts     int
	MaxConsecutiveFailures int
	// SegmentMaxDuration bounds one capture attempt; zero means an attempt
	// may run for the whole remaining recording window.
	SegmentMaxDuration time.Duration
}

// JobFromConfig builds a Job from the recording section of the configuration.
func JobFromConfig(cfg *config.Config, stationName, streamURL string, target time.Duration, outputPath string) Job {
	rec := cfg.Recording
	return Job{
		Station:                stationName,
		StreamURL:              streamURL,
		TargetDuration:         target,
		OutputPath:             outputPath,
		StallTimeout:           time.Duration(rec.StallTimeout) * time.Second,
		CheckInterval:          time.Duration(rec.CheckInterval) * time.Second,
		MinSegmentSize:         rec.MinSegmentSize,
		MaxRestartAttempts:     rec.MaxRestartAttempts,
		MaxConsecutiveFailures: rec.MaxConsecutiveFailures,
		SegmentMaxDuration:     time.Duration(rec.SegmentMaxDuration) * time.Second,
	}
}

// Validate checks the job for internally consistent parameters.
func (j Job) Validate() error {
	if strings.TrimSpace(j.StreamURL) == "" {
		return errors.New("stream url required")
	}
	if strings.TrimSpace(j.OutputPath) == "" {
		return errors.New("output path required")
	}
	if j.TargetDuration <= 0 {
		return errors.New("target duration must be positive")
	}
	if j.CheckInterval <= 0 {
		return errors.New("check interval must be positive")
	}
	if j.StallTimeout < j.CheckInterval {
		return fmt.Errorf("stall timeout %s shorter than check interval %s", j.StallTimeout, j.CheckInterval)
	}
	if j.MinSegmentSize <= 0 {
		return errors.New("minimum segment size must be positive")
	}
	if j.MaxRestartAttempts <= 0 {
		return errors.New("max restart attempts must be positive")
	}
	if j.MaxConsecutiveFailures <= 0 {
		return errors.New("max consecutive failures must be positive")
	}
	return nil
}

// SegmentDir returns the working directory holding this job's segment files,
// named after the output file so concurrent jobs for different outputs never
// collide.
func (j Job) SegmentDir() string {
	base := filepath.Base(j.OutputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(j.OutputPath), ".segments_"+stem)
}

// SegmentPath returns the output path for the numbered capture attempt.
func (j Job) SegmentPath(attempt int) string {
	ext := filepath.Ext(j.OutputPath)
	if ext == "" {
		ext = ".mp3"
	}
	return filepath.Join(j.SegmentDir(), fmt.Sprintf("segment_%03d%s", attempt, ext))
}
