package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"aircheck/internal/services"
)

func newBufferLogger(t *testing.T, format string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)

	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(&buf, levelVar, false)
	default:
		handler = newPrettyHandler(&buf, levelVar, false)
	}
	return slog.New(handler), &buf
}

func TestConsoleHandlerPromotesStandardFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")
	logger.Info("segment accepted",
		String(FieldComponent, "recorder"),
		String(FieldStation, "jazzfm"),
		Int(FieldAttempt, 3),
		Int64("bytes", 2048),
	)
	line := buf.String()
	if !strings.Contains(line, "[recorder]") {
		t.Fatalf("expected component tag in %q", line)
	}
	if !strings.Contains(line, "jazzfm #3") {
		t.Fatalf("expected station/attempt subject in %q", line)
	}
	if !strings.Contains(line, "bytes=2048") {
		t.Fatalf("expected remaining attrs in %q", line)
	}
}

func TestJSONHandlerLowercasesLevel(t *testing.T) {
	logger, buf := newBufferLogger(t, "json")
	logger.Warn("stall detected")
	line := buf.String()
	if !strings.Contains(line, `"level":"warn"`) {
		t.Fatalf("expected lowercase level in %q", line)
	}
	if !strings.Contains(line, `"msg":"stall detected"`) {
		t.Fatalf("expected msg key in %q", line)
	}
}

func TestWithContextAddsFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")
	ctx := services.WithStation(context.Background(), "jazzfm")
	ctx = services.WithRunID(ctx, "run-1")
	WithContext(ctx, logger).Info("starting")
	line := buf.String()
	if !strings.Contains(line, "jazzfm") {
		t.Fatalf("expected station field in %q", line)
	}
	if !strings.Contains(line, "run_id=run-1") {
		t.Fatalf("expected run id field in %q", line)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
