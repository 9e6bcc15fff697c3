package metadata_test

import (
	"testing"

	"aircheck/internal/config"
	"aircheck/internal/metadata"
)

func TestForRecordingDefaultsToStationName(t *testing.T) {
	tags := metadata.ForRecording("jazzfm", config.Station{Genre: "radio"}, "Jazzfm260829-Sat.mp3")
	if tags.Title != "Jazzfm260829-Sat" {
		t.Fatalf("unexpected title: %q", tags.Title)
	}
	if tags.Artist != "Jazzfm" {
		t.Fatalf("expected title-cased artist, got %q", tags.Artist)
	}
	if tags.Album != "Jazzfm" {
		t.Fatalf("expected title-cased album, got %q", tags.Album)
	}
	if tags.Genre != "radio" {
		t.Fatalf("unexpected genre: %q", tags.Genre)
	}
}

func TestForRecordingRespectsOverrides(t *testing.T) {
	station := config.Station{Artist: "Jazz FM London", Album: "Morning Show", Genre: "jazz"}
	tags := metadata.ForRecording("jazzfm", station, "Jazzfm260829-Sat.mp3")
	if tags.Artist != "Jazz FM London" || tags.Album != "Morning Show" || tags.Genre != "jazz" {
		t.Fatalf("expected overrides to win: %+v", tags)
	}
}

func TestDisplayNamePreservesMixedCase(t *testing.T) {
	if got := metadata.DisplayName("WDR5"); got != "WDR5" {
		t.Fatalf("mixed-case names should pass through, got %q", got)
	}
}
