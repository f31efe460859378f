// Package testsupport provides shared constructors for package tests.
package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"marquee/internal/config"
)

// NewConfig returns a validated configuration rooted in a per-test temp
// directory, pointing at the provided feed URL.
func NewConfig(t *testing.T, feedURL string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	contents := fmt.Sprintf(
		"[feed]\nurl = %q\ncache_dir = %q\n\n"+
			"[store]\npath = %q\njournal_path = %q\nlock_path = %q\n\n"+
			"[events]\ntimezone = \"UTC\"\n\n"+
			"[logging]\ndir = %q\n",
		feedURL,
		filepath.Join(dir, "cache"),
		filepath.Join(dir, "events.csv"),
		filepath.Join(dir, "journal.db"),
		filepath.Join(dir, "marquee.lock"),
		filepath.Join(dir, "logs"),
	)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("load test config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return cfg
}
