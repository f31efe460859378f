package config

const (
	defaultStorePath      = "~/.local/share/marquee/events.csv"
	defaultJournalPath    = "~/.local/share/marquee/journal.db"
	defaultLockPath       = "~/.local/share/marquee/marquee.lock"
	defaultFeedCacheDir   = "~/.cache/marquee/feed"
	defaultFeedTimeout    = 30
	defaultTimezone       = "Europe/Paris"
	defaultGraceHours     = 24
	defaultDaemonSchedule = "@every 30m"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultLogDir         = "~/.local/share/marquee/logs"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Feed: Feed{
			TimeoutSeconds: defaultFeedTimeout,
			CacheDir:       defaultFeedCacheDir,
		},
		Store: Store{
			Path:        defaultStorePath,
			JournalPath: defaultJournalPath,
			LockPath:    defaultLockPath,
		},
		Events: Events{
			Timezone:   defaultTimezone,
			GraceHours: defaultGraceHours,
		},
		Daemon: Daemon{
			Schedule: defaultDaemonSchedule,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
	}
}
