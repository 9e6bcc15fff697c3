package recording

import (
	"path/filepath"
	"testing"
	"time"
)

func TestJobSegmentLayout(t *testing.T) {
	job := testJob()
	job.OutputPath = "/srv/work/JazzFM260829-Sat.mp3"

	wantDir := filepath.Join("/srv/work", ".segments_JazzFM260829-Sat")
	if got := job.SegmentDir(); got != wantDir {
		t.Fatalf("unexpected segment dir %q", got)
	}
	if got := job.SegmentPath(7); got != filepath.Join(wantDir, "segment_007.mp3") {
		t.Fatalf("unexpected segment path %q", got)
	}
}

func TestJobValidate(t *testing.T) {
	if err := testJob().Validate(); err != nil {
		t.Fatalf("valid job rejected: %v", err)
	}

	broken := testJob()
	broken.StallTimeout = time.Second
	broken.CheckInterval = 5 * time.Second
	if err := broken.Validate(); err == nil {
		t.Fatal("stall timeout below check interval must be rejected")
	}

	missing := testJob()
	missing.StreamURL = " "
	if err := missing.Validate(); err == nil {
		t.Fatal("blank stream url must be rejected")
	}

	zero := testJob()
	zero.TargetDuration = 0
	if err := zero.Validate(); err == nil {
		t.Fatal("zero target duration must be rejected")
	}
}
