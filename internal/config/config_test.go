package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"marquee/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "[feed]\nurl = \"https://calendar.example.org/events.ics\"\n")

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Events.GraceHours != 24 {
		t.Fatalf("expected default grace hours 24, got %d", cfg.Events.GraceHours)
	}
	if cfg.Events.Timezone != "Europe/Paris" {
		t.Fatalf("unexpected default timezone %q", cfg.Events.Timezone)
	}
	if cfg.Location() == time.UTC {
		t.Fatal("expected resolved non-UTC location")
	}
	if !filepath.IsAbs(cfg.Store.Path) {
		t.Fatalf("expected expanded store path, got %q", cfg.Store.Path)
	}
}

func TestLoadRequiresFeedURL(t *testing.T) {
	path := writeConfig(t, "")

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for missing feed url")
	}
	if !strings.Contains(err.Error(), "feed.url") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	path := writeConfig(t, "[feed]\nurl = \"https://calendar.example.org/events.ics\"\n\n[events]\ntimezone = \"Mars/Olympus\"\n")

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "events.timezone") {
		t.Fatalf("expected timezone error, got %v", err)
	}
}

func TestEnvOverridesWin(t *testing.T) {
	path := writeConfig(t, "[feed]\nurl = \"https://calendar.example.org/events.ics\"\n")
	t.Setenv("MARQUEE_FEED_URL", "https://other.example.org/feed.ics")
	t.Setenv("MARQUEE_GRACE_HOURS", "48")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Feed.URL != "https://other.example.org/feed.ics" {
		t.Fatalf("expected env feed url, got %q", cfg.Feed.URL)
	}
	if cfg.Events.GraceHours != 48 {
		t.Fatalf("expected env grace hours, got %d", cfg.Events.GraceHours)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	path := writeConfig(t, "[feed]\nurl = \"https://calendar.example.org/events.ics\"\n\n[logging]\nformat = \"xml\"\n")

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging format error, got %v", err)
	}
}
