package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	c.applyEnvOverrides()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeEvents(); err != nil {
		return err
	}
	c.normalizeLogging()
	if strings.TrimSpace(c.Daemon.Schedule) == "" {
		c.Daemon.Schedule = defaultDaemonSchedule
	}
	return nil
}

// applyEnvOverrides lets deployments point Marquee at a feed without a config
// file, matching the environment-first style of the hosting cron jobs.
func (c *Config) applyEnvOverrides() {
	if v, ok := os.LookupEnv("MARQUEE_FEED_URL"); ok && strings.TrimSpace(v) != "" {
		c.Feed.URL = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("MARQUEE_TIMEZONE"); ok && strings.TrimSpace(v) != "" {
		c.Events.Timezone = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("MARQUEE_GRACE_HOURS"); ok {
		if hours, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			c.Events.GraceHours = hours
		}
	}
	if v, ok := os.LookupEnv("MARQUEE_STORE_PATH"); ok && strings.TrimSpace(v) != "" {
		c.Store.Path = strings.TrimSpace(v)
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = defaultStorePath
	}
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	if strings.TrimSpace(c.Store.JournalPath) == "" {
		c.Store.JournalPath = defaultJournalPath
	}
	if c.Store.JournalPath, err = expandPath(c.Store.JournalPath); err != nil {
		return fmt.Errorf("store.journal_path: %w", err)
	}
	if strings.TrimSpace(c.Store.LockPath) == "" {
		c.Store.LockPath = defaultLockPath
	}
	if c.Store.LockPath, err = expandPath(c.Store.LockPath); err != nil {
		return fmt.Errorf("store.lock_path: %w", err)
	}
	if strings.TrimSpace(c.Feed.CacheDir) == "" {
		c.Feed.CacheDir = defaultFeedCacheDir
	}
	if c.Feed.CacheDir, err = expandPath(c.Feed.CacheDir); err != nil {
		return fmt.Errorf("feed.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
			return fmt.Errorf("logging.dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeEvents() error {
	zone := strings.TrimSpace(c.Events.Timezone)
	if zone == "" {
		zone = defaultTimezone
		c.Events.Timezone = zone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return fmt.Errorf("events.timezone: unknown zone %q: %w", zone, err)
	}
	c.location = loc
	c.Events.SiteOrigin = strings.TrimRight(strings.TrimSpace(c.Events.SiteOrigin), "/")
	if c.Feed.TimeoutSeconds <= 0 {
		c.Feed.TimeoutSeconds = defaultFeedTimeout
	}
	return nil
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
