package lifecycle_test

import (
	"testing"
	"time"

	"marquee/internal/lifecycle"
	"marquee/internal/record"
)

func TestIsLiveGraceBoundary(t *testing.T) {
	start := time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)
	rec := record.Record{Title: "Concert", Start: start}
	grace := 24 * time.Hour

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", start.Add(-time.Hour), true},
		{"23h after start", start.Add(23 * time.Hour), true},
		{"exactly at cutoff", start.Add(24 * time.Hour), false},
		{"25h after start", start.Add(25 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := lifecycle.IsLive(rec, tc.now, grace); got != tc.want {
				t.Fatalf("IsLive at %v = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}

func TestIsLiveExcludesMissingStart(t *testing.T) {
	rec := record.Record{Title: "Corrupt"}
	if lifecycle.IsLive(rec, time.Now(), 24*time.Hour) {
		t.Fatal("record without start must not be live")
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	now := time.Date(2026, 9, 12, 12, 0, 0, 0, time.UTC)
	recs := []record.Record{
		{Title: "Past", Start: now.Add(-48 * time.Hour)},
		{Title: "Tonight", Start: now.Add(8 * time.Hour)},
		{Title: "Tomorrow", Start: now.Add(30 * time.Hour)},
	}

	live := lifecycle.Filter(recs, now, 24*time.Hour)
	if len(live) != 2 || live[0].Title != "Tonight" || live[1].Title != "Tomorrow" {
		t.Fatalf("unexpected filter result: %+v", live)
	}
}
