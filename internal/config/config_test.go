package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aircheck/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Recording.StallTimeout != 60 || cfg.Recording.CheckInterval != 5 {
		t.Fatalf("unexpected recording defaults: %+v", cfg.Recording)
	}
	if cfg.Recording.MinSegmentSize != 1000 {
		t.Fatalf("unexpected min segment size: %d", cfg.Recording.MinSegmentSize)
	}
}

func TestLoadParsesStations(t *testing.T) {
	path := writeConfig(t, `
[stations.jazzfm]
stream = "https://stream.example.org/jazz.mp3"
artist = "Jazz FM"

[stations.jazzfm.sftp]
host = "upload.example.org"
user = "radio"
key_file = "~/keys/id_ed25519"
remote_path = "/srv/podcast/"
`)
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}

	station, ok := cfg.Station("JazzFM")
	if !ok {
		t.Fatal("expected case-insensitive station lookup")
	}
	if station.Stream != "https://stream.example.org/jazz.mp3" {
		t.Fatalf("unexpected stream: %q", station.Stream)
	}
	if station.Genre != "radio" {
		t.Fatalf("expected default genre, got %q", station.Genre)
	}
	if station.SFTP.Port != 22 {
		t.Fatalf("expected default sftp port, got %d", station.SFTP.Port)
	}
	if strings.HasPrefix(station.SFTP.KeyFile, "~") {
		t.Fatalf("expected expanded key file path, got %q", station.SFTP.KeyFile)
	}
}

func TestLoadRejectsStationWithoutStream(t *testing.T) {
	path := writeConfig(t, `
[stations.broken]
artist = "Broken"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for missing stream url")
	}
}

func TestLoadRejectsIncompleteSFTP(t *testing.T) {
	path := writeConfig(t, `
[stations.jazzfm]
stream = "https://stream.example.org/jazz.mp3"

[stations.jazzfm.sftp]
host = "upload.example.org"
user = "radio"
remote_path = "/srv/podcast/"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for sftp without credentials")
	}
}

func TestLoadRejectsStallShorterThanCheckInterval(t *testing.T) {
	path := writeConfig(t, `
[recording]
stall_timeout = 2
check_interval = 5
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for stall_timeout < check_interval")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
