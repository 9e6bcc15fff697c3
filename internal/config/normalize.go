package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRecording()
	c.normalizeLogging()
	c.normalizeNotifications()
	return c.normalizeStations()
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("normalize work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("normalize log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRecording() {
	if c.Recording.StallTimeout <= 0 {
		c.Recording.StallTimeout = defaultStallTimeout
	}
	if c.Recording.CheckInterval <= 0 {
		c.Recording.CheckInterval = defaultCheckInterval
	}
	if c.Recording.MinSegmentSize <= 0 {
		c.Recording.MinSegmentSize = defaultMinSegmentSize
	}
	if c.Recording.MaxRestartAttempts <= 0 {
		c.Recording.MaxRestartAttempts = defaultMaxRestartAttempts
	}
	if c.Recording.MaxConsecutiveFailures <= 0 {
		c.Recording.MaxConsecutiveFailures = defaultMaxConsecutiveFailures
	}
	if c.Recording.SegmentMaxDuration < 0 {
		c.Recording.SegmentMaxDuration = 0
	}
	if c.Recording.MinFreeSpaceMiB < 0 {
		c.Recording.MinFreeSpaceMiB = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.PushoverToken = strings.TrimSpace(c.Notifications.PushoverToken)
	c.Notifications.PushoverUser = strings.TrimSpace(c.Notifications.PushoverUser)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeStations() error {
	if c.Stations == nil {
		c.Stations = map[string]Station{}
		return nil
	}
	for name, station := range c.Stations {
		station.Stream = strings.TrimSpace(station.Stream)
		station.Artist = strings.TrimSpace(station.Artist)
		station.Album = strings.TrimSpace(station.Album)
		station.Genre = strings.TrimSpace(station.Genre)
		if station.Genre == "" {
			station.Genre = defaultGenre
		}
		station.PodcastRefreshURL = strings.TrimSpace(station.PodcastRefreshURL)

		var err error
		if station.SaveDir != "" {
			if station.SaveDir, err = expandPath(station.SaveDir); err != nil {
				return fmt.Errorf("normalize station %q save_dir: %w", name, err)
			}
		}
		if station.SaveFlatDir != "" {
			if station.SaveFlatDir, err = expandPath(station.SaveFlatDir); err != nil {
				return fmt.Errorf("normalize station %q save_flat_dir: %w", name, err)
			}
		}
		if station.SFTP.KeyFile != "" {
			if station.SFTP.KeyFile, err = expandPath(station.SFTP.KeyFile); err != nil {
				return fmt.Errorf("normalize station %q sftp key_file: %w", name, err)
			}
		}
		if station.SFTP.Port <= 0 {
			station.SFTP.Port = 22
		}
		station.WebDAV.URL = strings.TrimRight(strings.TrimSpace(station.WebDAV.URL), "/")
		c.Stations[name] = station
	}
	return nil
}
