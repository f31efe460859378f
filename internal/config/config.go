package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Feed contains configuration for the upstream calendar feed.
type Feed struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	CacheDir       string `toml:"cache_dir"`
}

// Store contains configuration for the editable events table on disk.
type Store struct {
	Path        string `toml:"path"`
	JournalPath string `toml:"journal_path"`
	LockPath    string `toml:"lock_path"`
}

// Events contains configuration for event interpretation and lifecycle.
type Events struct {
	// Timezone is the IANA zone events are rendered and persisted in.
	Timezone string `toml:"timezone"`
	// GraceHours keeps an event listed this long after it starts.
	GraceHours int `toml:"grace_hours"`
	// SiteOrigin resolves site-relative cover paths to absolute URLs.
	SiteOrigin string `toml:"site_origin"`
}

// Daemon contains configuration for scheduled runs.
type Daemon struct {
	// Schedule is a cron expression (robfig/cron syntax, @every accepted).
	Schedule string `toml:"schedule"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for Marquee.
//
// Configuration sections by subsystem:
//   - Feed: upstream ICS endpoint, fetch timeout, conditional-GET cache
//   - Store: events table path, run journal path, run lock path
//   - Events: timezone, grace period, site origin for relative covers
//   - Daemon: cron schedule for periodic reconciliation
//   - Logging: log format, level, and directory
type Config struct {
	Feed    Feed    `toml:"feed"`
	Store   Store   `toml:"store"`
	Events  Events  `toml:"events"`
	Daemon  Daemon  `toml:"daemon"`
	Logging Logging `toml:"logging"`

	location *time.Location
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/marquee/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. The
// returned config has all path fields expanded and the timezone resolved.
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

	projectPath, err := filepath.Abs("marquee.toml")
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

// EnsureDirectories creates the directories backing the store, journal, cache,
// and logs so a first run does not fail on a fresh machine.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Store.Path),
		filepath.Dir(c.Store.JournalPath),
		filepath.Dir(c.Store.LockPath),
		c.Feed.CacheDir,
		c.Logging.Dir,
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Location returns the resolved display timezone. Load guarantees it is set.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// GracePeriod returns the configured grace period as a duration.
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.Events.GraceHours) * time.Hour
}

// FeedTimeout returns the configured fetch timeout as a duration.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.Feed.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if len(pathValue) > 0 && pathValue[0] == '~' {
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
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}
