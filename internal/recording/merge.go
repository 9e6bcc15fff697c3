package recording

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"aircheck/internal/fileutil"
	"aircheck/internal/logging"
)

// Concatenator is the slice of the ffmpeg client the merger needs.
type Concatenator interface {
	Concat(ctx context.Context, segments []string, listPath, outputPath string, tags map[string]string) error
}

// Merger assembles accepted segments into the final recording. On any
// failure the segment files are left on disk untouched so no captured audio
// is silently lost.
type Merger struct {
	concat Concatenator
	logger *slog.Logger
}

// NewMerger builds a merger around the given concatenator.
func NewMerger(concat Concatenator, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Merger{concat: concat, logger: logger}
}

// Merge concatenates the accepted segments in capture order into the job's
// output path with stream copy and applies the container tags. A single
// segment is moved into place directly. Segment cleanup is the caller's
// decision; Merge never deletes inputs.
func (m *Merger) Merge(ctx context.Context, job Job, segments []Segment, tags map[string]string) (string, error) {
	if len(segments) == 0 {
		return "", ErrNoSegments
	}

	if len(segments) == 1 {
		if err := moveFile(segments[0].Path, job.OutputPath); err != nil {
			return "", fmt.Errorf("%w: %w", ErrMergeFailure, err)
		}
		m.logger.Info("single segment moved into place",
			logging.String("output", job.OutputPath),
			logging.Int64("bytes", segments[0].Size),
		)
		return job.OutputPath, nil
	}

	paths := make([]string, 0, len(segments))
	for _, segment := range segments {
		paths = append(paths, segment.Path)
	}
	listPath := filepath.Join(job.SegmentDir(), "concat.txt")

	if err := m.concat.Concat(ctx, paths, listPath, job.OutputPath, tags); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMergeFailure, err)
	}
	if fileutil.SizeOf(job.OutputPath) == 0 {
		return "", fmt.Errorf("%w: merged output missing or empty", ErrMergeFailure)
	}

	m.logger.Info("segments merged",
		logging.Int("segments", len(segments)),
		logging.String("output", job.OutputPath),
	)
	return job.OutputPath, nil
}

// moveFile renames src to dst, falling back to a verified copy when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := fileutil.CopyFileVerified(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
