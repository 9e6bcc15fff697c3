package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration consistency after normalization.
func (c *Config) Validate() error {
	if err := c.validateRecording(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateStations()
}

func (c *Config) validateRecording() error {
	rec := c.Recording
	if rec.StallTimeout < rec.CheckInterval {
		return fmt.Errorf("recording: stall_timeout (%ds) must be at least check_interval (%ds)", rec.StallTimeout, rec.CheckInterval)
	}
	if rec.SegmentMaxDuration > 0 && rec.SegmentMaxDuration < rec.CheckInterval {
		return fmt.Errorf("recording: segment_max_duration (%ds) shorter than check_interval (%ds)", rec.SegmentMaxDuration, rec.CheckInterval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging: unsupported format %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging: unsupported level %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateStations() error {
	for name, station := range c.Stations {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("stations: empty station name")
		}
		if station.Stream == "" {
			return fmt.Errorf("station %q: stream url required", name)
		}
		if station.SFTP.Host != "" {
			if station.SFTP.User == "" {
				return fmt.Errorf("station %q: sftp user required", name)
			}
			if station.SFTP.Password == "" && station.SFTP.KeyFile == "" {
				return fmt.Errorf("station %q: sftp needs a password or key_file", name)
			}
			if station.SFTP.RemotePath == "" {
				return fmt.Errorf("station %q: sftp remote_path required", name)
			}
		}
		if station.WebDAV.URL != "" {
			if station.WebDAV.User == "" || station.WebDAV.Password == "" {
				return fmt.Errorf("station %q: webdav user and password required", name)
			}
		}
	}
	return nil
}
