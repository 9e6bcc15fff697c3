package recording

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func appendBytes(t *testing.T, path string, n int) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.Write(make([]byte, n)); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestMonitorReportsMissingAfterOneInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never-created.mp3")
	monitor := NewMonitor(path, 10*time.Millisecond, 50*time.Millisecond)

	start := time.Now()
	verdict, err := monitor.Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if verdict != VerdictMissing {
		t.Fatalf("expected missing, got %s", verdict)
	}
	if elapsed := time.Since(start); elapsed < 10*time.Millisecond {
		t.Fatalf("missing declared before one check interval: %s", elapsed)
	}
}

func TestMonitorDeclaresStallAfterFullWindow(t *testing.T) {
	// Writing stops at t=50ms with a 100ms stall timeout and 20ms check
	// interval, so the stall must be declared no earlier than t=150ms.
	path := filepath.Join(t.TempDir(), "segment.mp3")
	appendBytes(t, path, 64)

	checkInterval := 20 * time.Millisecond
	stallTimeout := 100 * time.Millisecond
	monitor := NewMonitor(path, checkInterval, stallTimeout)

	start := time.Now()
	stop := make(chan struct{})
	go func() {
		defer close(stop)
		// Keep the file growing for the first 50ms.
		for time.Since(start) < 50*time.Millisecond {
			appendBytes(t, path, 16)
			time.Sleep(10 * time.Millisecond)
		}
	}()

	verdict, err := monitor.Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	<-stop
	if verdict != VerdictStalled {
		t.Fatalf("expected stalled, got %s", verdict)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond+stallTimeout {
		t.Fatalf("stall declared too early: %s", elapsed)
	}
}

func TestMonitorKeepsGrowingFileAlive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segment.mp3")
	appendBytes(t, path, 1)

	monitor := NewMonitor(path, 10*time.Millisecond, 60*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Millisecond):
				appendBytes(t, path, 8)
			}
		}
	}()

	if _, err := monitor.Watch(ctx); err == nil {
		t.Fatal("expected context deadline, monitor should not fire on a growing file")
	}
	<-done
}

func TestMonitorEmptyFileIsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.mp3")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("create empty file: %v", err)
	}

	monitor := NewMonitor(path, 10*time.Millisecond, 30*time.Millisecond)
	verdict, err := monitor.Watch(context.Background())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if verdict != VerdictMissing {
		t.Fatalf("expected missing for zero-byte file, got %s", verdict)
	}
}
