package recording

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"aircheck/internal/testsupport"
)

// fakeConcat records the concat call and optionally writes the output file.
type fakeConcat struct {
	segments []string
	tags     map[string]string
	output   []byte
	err      error
}

func (c *fakeConcat) Concat(_ context.Context, segments []string, _ string, outputPath string, tags map[string]string) error {
	c.segments = segments
	c.tags = tags
	if c.err != nil {
		return c.err
	}
	return os.WriteFile(outputPath, c.output, 0o644)
}

func mergeJob(t *testing.T) Job {
	t.Helper()
	job := testJob()
	job.OutputPath = filepath.Join(t.TempDir(), "JazzFM260829-Sat.mp3")
	if err := os.MkdirAll(job.SegmentDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	return job
}

func writeSegment(t *testing.T, job Job, attempt int, size int) Segment {
	t.Helper()
	path := job.SegmentPath(attempt)
	testsupport.WriteFile(t, path, int64(size))
	return Segment{Path: path, Size: int64(size)}
}

func TestMergeNoSegments(t *testing.T) {
	merger := NewMerger(&fakeConcat{}, nil)
	if _, err := merger.Merge(context.Background(), mergeJob(t), nil, nil); !errors.Is(err, ErrNoSegments) {
		t.Fatalf("expected ErrNoSegments, got %v", err)
	}
}

func TestMergeSingleSegmentMovesIntoPlace(t *testing.T) {
	job := mergeJob(t)
	segment := writeSegment(t, job, 1, 4096)

	concat := &fakeConcat{}
	merger := NewMerger(concat, nil)
	output, err := merger.Merge(context.Background(), job, []Segment{segment}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if output != job.OutputPath {
		t.Fatalf("unexpected output path %q", output)
	}
	if concat.segments != nil {
		t.Fatal("single segment must not invoke concat")
	}
	if info, err := os.Stat(job.OutputPath); err != nil || info.Size() != 4096 {
		t.Fatalf("output not moved into place: %v", err)
	}
	if _, err := os.Stat(segment.Path); !os.IsNotExist(err) {
		t.Fatal("moved segment should no longer exist at its old path")
	}
}

func TestMergeConcatenatesInCaptureOrder(t *testing.T) {
	job := mergeJob(t)
	segments := []Segment{
		writeSegment(t, job, 1, 2000),
		writeSegment(t, job, 3, 3000),
		writeSegment(t, job, 7, 1500),
	}

	concat := &fakeConcat{output: make([]byte, 6500)}
	merger := NewMerger(concat, nil)
	tags := map[string]string{"artist": "JazzFM", "title": "JazzFM260829-Sat"}
	if _, err := merger.Merge(context.Background(), job, segments, tags); err != nil {
		t.Fatal(err)
	}

	want := []string{job.SegmentPath(1), job.SegmentPath(3), job.SegmentPath(7)}
	if len(concat.segments) != len(want) {
		t.Fatalf("concat got %d segments, want %d", len(concat.segments), len(want))
	}
	for i := range want {
		if concat.segments[i] != want[i] {
			t.Fatalf("segment %d out of order: got %q, want %q", i, concat.segments[i], want[i])
		}
	}
	if concat.tags["artist"] != "JazzFM" {
		t.Fatalf("tags not forwarded: %v", concat.tags)
	}
}

func TestMergeFailureLeavesSegments(t *testing.T) {
	job := mergeJob(t)
	segments := []Segment{
		writeSegment(t, job, 1, 2000),
		writeSegment(t, job, 2, 3000),
	}

	concat := &fakeConcat{err: errors.New("ffmpeg: invalid data")}
	merger := NewMerger(concat, nil)
	if _, err := merger.Merge(context.Background(), job, segments, nil); !errors.Is(err, ErrMergeFailure) {
		t.Fatalf("expected ErrMergeFailure, got %v", err)
	}

	for _, segment := range segments {
		if _, err := os.Stat(segment.Path); err != nil {
			t.Fatalf("segment must survive a failed merge: %v", err)
		}
	}
}

func TestMergeEmptyOutputIsFailure(t *testing.T) {
	job := mergeJob(t)
	segments := []Segment{
		writeSegment(t, job, 1, 2000),
		writeSegment(t, job, 2, 3000),
	}

	merger := NewMerger(&fakeConcat{output: nil}, nil)
	if _, err := merger.Merge(context.Background(), job, segments, nil); !errors.Is(err, ErrMergeFailure) {
		t.Fatalf("expected ErrMergeFailure for empty output, got %v", err)
	}
}
