package ffmpeg_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aircheck/internal/services/ffmpeg"
)

type recordingExecutor struct {
	binary string
	args   []string
	err    error
}

func (r *recordingExecutor) Run(_ context.Context, binary string, args []string, _ func(string)) error {
	r.binary = binary
	r.args = args
	return r.err
}

type fakeProcess struct {
	done chan error
}

func (p *fakeProcess) Done() <-chan error       { return p.done }
func (p *fakeProcess) Stop(time.Duration) error { return nil }

type recordingStarter struct {
	binary string
	args   []string
	proc   *fakeProcess
}

func (r *recordingStarter) Start(_ context.Context, binary string, args []string) (ffmpeg.Process, error) {
	r.binary = binary
	r.args = args
	return r.proc, nil
}

func TestStartCaptureBuildsStreamCopyArgs(t *testing.T) {
	starter := &recordingStarter{proc: &fakeProcess{done: make(chan error, 1)}}
	client, err := ffmpeg.New("ffmpeg", ffmpeg.WithStarter(starter))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.StartCapture(context.Background(), ffmpeg.CaptureRequest{
		StreamURL:  "https://stream.example.org/live.mp3",
		OutputPath: "/tmp/segment_001.mp3",
		Duration:   90 * time.Second,
	})
	if err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}

	joined := strings.Join(starter.args, " ")
	for _, want := range []string{"-i https://stream.example.org/live.mp3", "-t 90", "-c copy", "-y /tmp/segment_001.mp3"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in args %q", want, joined)
		}
	}
}

func TestStartCaptureOmitsDurationWhenUnbounded(t *testing.T) {
	starter := &recordingStarter{proc: &fakeProcess{done: make(chan error, 1)}}
	client, _ := ffmpeg.New("ffmpeg", ffmpeg.WithStarter(starter))

	if _, err := client.StartCapture(context.Background(), ffmpeg.CaptureRequest{
		StreamURL:  "https://stream.example.org/live.mp3",
		OutputPath: "/tmp/out.mp3",
	}); err != nil {
		t.Fatalf("StartCapture failed: %v", err)
	}
	for _, arg := range starter.args {
		if arg == "-t" {
			t.Fatalf("unexpected -t flag in %v", starter.args)
		}
	}
}

func TestStartCaptureRequiresURLAndPath(t *testing.T) {
	client, _ := ffmpeg.New("ffmpeg")
	if _, err := client.StartCapture(context.Background(), ffmpeg.CaptureRequest{OutputPath: "/tmp/x"}); err == nil {
		t.Fatal("expected error for missing stream url")
	}
	if _, err := client.StartCapture(context.Background(), ffmpeg.CaptureRequest{StreamURL: "x"}); err == nil {
		t.Fatal("expected error for missing output path")
	}
}

func TestConcatWritesListAndMetadata(t *testing.T) {
	exec := &recordingExecutor{}
	client, _ := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(exec))

	dir := t.TempDir()
	listPath := filepath.Join(dir, "concat.txt")
	segments := []string{
		filepath.Join(dir, "segment_001.mp3"),
		filepath.Join(dir, "it's live.mp3"),
	}

	err := client.Concat(context.Background(), segments, listPath, filepath.Join(dir, "out.mp3"), map[string]string{
		"title":  "JazzFM260829-Sat",
		"artist": "Jazz FM",
		"genre":  "",
	})
	if err != nil {
		t.Fatalf("Concat failed: %v", err)
	}

	list, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("read concat list: %v", err)
	}
	if !strings.Contains(string(list), "file '"+segments[0]+"'") {
		t.Fatalf("expected first segment in list: %s", list)
	}
	if !strings.Contains(string(list), `it'\''s live.mp3`) {
		t.Fatalf("expected quote escaping in list: %s", list)
	}

	joined := strings.Join(exec.args, " ")
	if !strings.Contains(joined, "-f concat -safe 0 -i "+listPath) {
		t.Fatalf("expected concat demuxer args, got %q", joined)
	}
	if !strings.Contains(joined, "-metadata artist=Jazz FM") || !strings.Contains(joined, "-metadata title=JazzFM260829-Sat") {
		t.Fatalf("expected metadata args, got %q", joined)
	}
	if strings.Contains(joined, "genre=") {
		t.Fatalf("empty tags should be dropped, got %q", joined)
	}
}

func TestConcatRequiresSegments(t *testing.T) {
	client, _ := ffmpeg.New("ffmpeg", ffmpeg.WithExecutor(&recordingExecutor{}))
	if err := client.Concat(context.Background(), nil, "list", "out", nil); err == nil {
		t.Fatal("expected error for empty segment list")
	}
}
