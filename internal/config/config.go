package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Recording contains supervisor timing and acceptance thresholds.
type Recording struct {
	StallTimeout           int   `toml:"stall_timeout"`
	CheckInterval          int   `toml:"check_interval"`
	MinSegmentSize         int64 `toml:"min_segment_size"`
	MaxRestartAttempts     int   `toml:"max_restart_attempts"`
	MaxConsecutiveFailures int   `toml:"max_consecutive_failures"`
	// SegmentMaxDuration bounds a single capture attempt in seconds.
	// Zero means a segment may run for the whole remaining recording window.
	SegmentMaxDuration int `toml:"segment_max_duration"`
	// MinFreeSpaceMiB is the free-disk floor checked before recording starts.
	MinFreeSpaceMiB int64 `toml:"min_free_space_mib"`
}

// Notifications contains Pushover push notification settings.
type Notifications struct {
	PushoverToken  string `toml:"pushover_token"`
	PushoverUser   string `toml:"pushover_user"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// SFTP describes an SFTP upload destination.
type SFTP struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	User       string `toml:"user"`
	Password   string `toml:"password"`
	KeyFile    string `toml:"key_file"`
	RemotePath string `toml:"remote_path"`
}

// WebDAV describes a WebDAV (ownCloud/Nextcloud) upload destination.
type WebDAV struct {
	URL      string `toml:"url"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	BaseDir  string `toml:"base_dir"`
}

// Station describes one recordable stream and its delivery destinations.
type Station struct {
	Stream            string `toml:"stream"`
	Artist            string `toml:"artist"`
	Album             string `toml:"album"`
	Genre             string `toml:"genre"`
	SaveDir           string `toml:"save_dir"`
	SaveFlatDir       string `toml:"save_flat_dir"`
	PodcastRefreshURL string `toml:"podcast_refresh_url"`
	SFTP              SFTP   `toml:"sftp"`
	WebDAV            WebDAV `toml:"webdav"`
}

// Config encapsulates all configuration values for aircheck.
//
// Configuration sections by subsystem:
//   - Paths: working and log directories
//   - Recording: supervisor timing, ceilings, and acceptance thresholds
//   - Notifications: Pushover credentials
//   - Logging: log format and level
//   - Stations: named stream definitions with per-station destinations
type Config struct {
	Paths         Paths              `toml:"paths"`
	Recording     Recording          `toml:"recording"`
	Notifications Notifications      `toml:"notifications"`
	Logging       Logging            `toml:"logging"`
	Stations      map[string]Station `toml:"stations"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/aircheck/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("aircheck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required for a recording run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Station returns the named station definition. Lookup is case-insensitive
// to match the historic settings-file behaviour.
func (c *Config) Station(name string) (Station, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Station{}, false
	}
	if station, ok := c.Stations[name]; ok {
		return station, true
	}
	for key, station := range c.Stations {
		if strings.EqualFold(key, name) {
			return station, true
		}
	}
	return Station{}, false
}

// StationNames returns the configured station names in sorted order.
func (c *Config) StationNames() []string {
	names := make([]string, 0, len(c.Stations))
	for name := range c.Stations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FFmpegBinary returns the capture/merge executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
