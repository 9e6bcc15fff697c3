package config

const (
	defaultWorkDir = "~/.local/share/aircheck/work"
	defaultLogDir  = "~/.local/share/aircheck/logs"

	defaultStallTimeout           = 60
	defaultCheckInterval          = 5
	defaultMinSegmentSize         = 1000
	defaultMaxRestartAttempts     = 100
	defaultMaxConsecutiveFailures = 10
	defaultMinFreeSpaceMiB        = 512

	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultNotifyRequestTimeout = 10

	defaultGenre = "radio"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Recording: Recording{
			StallTimeout:           defaultStallTimeout,
			CheckInterval:          defaultCheckInterval,
			MinSegmentSize:         defaultMinSegmentSize,
			MaxRestartAttempts:     defaultMaxRestartAttempts,
			MaxConsecutiveFailures: defaultMaxConsecutiveFailures,
			MinFreeSpaceMiB:        defaultMinFreeSpaceMiB,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Stations: map[string]Station{},
	}
}
