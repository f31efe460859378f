package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFeed(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFeed() error {
	trimmed := strings.TrimSpace(c.Feed.URL)
	if trimmed == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/marquee/config.toml"
		}
		return fmt.Errorf("feed.url is required. Set MARQUEE_FEED_URL env var or edit %s (create with 'marquee config init')", defaultPath)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("feed.url %q is not an absolute URL", trimmed)
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.GraceHours < 0 {
		return fmt.Errorf("events.grace_hours must not be negative, got %d", c.Events.GraceHours)
	}
	if origin := c.Events.SiteOrigin; origin != "" {
		parsed, err := url.Parse(origin)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("events.site_origin %q is not an absolute URL", origin)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
