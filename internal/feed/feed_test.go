package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marquee/internal/feed"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:uid-1\r\n" +
	"SUMMARY:Concert Rock\r\n" +
	"DTSTART:20260912T203000Z\r\n" +
	"LOCATION:Le Hangar\r\n" +
	"URL:https://example.org/concert\r\n" +
	"DESCRIPTION:Ouverture des portes 20h.\\ncover: https://example.org/poster.jpg\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:uid-2\r\n" +
	"DTSTART:20260913T180000Z\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:uid-3\r\n" +
	"SUMMARY:Sans date\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseSkipsInvalidEntries(t *testing.T) {
	entries, err := feed.Parse([]byte(sampleICS), time.UTC, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 valid entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.UID != "uid-1" || entry.Title != "Concert Rock" || entry.Location != "Le Hangar" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	want := time.Date(2026, 9, 12, 20, 30, 0, 0, time.UTC)
	if !entry.Start.Equal(want) {
		t.Fatalf("start = %v, want %v", entry.Start, want)
	}
	if entry.URL != "https://example.org/concert" {
		t.Fatalf("url = %q", entry.URL)
	}
}

func TestParseUnescapesDescription(t *testing.T) {
	entries, err := feed.Parse([]byte(sampleICS), time.UTC, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := "Ouverture des portes 20h.\ncover: https://example.org/poster.jpg"
	if entries[0].Description != want {
		t.Fatalf("description = %q, want %q", entries[0].Description, want)
	}
}

func TestParseEmptyBody(t *testing.T) {
	if _, err := feed.Parse(nil, time.UTC, nil); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(sampleICS))
	}))
	defer server.Close()

	fetcher := feed.NewFetcher(5*time.Second, t.TempDir())
	body, fromCache, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fromCache {
		t.Fatal("first fetch should not come from cache")
	}
	if string(body) != sampleICS {
		t.Fatal("unexpected body")
	}
}

func TestFetchUsesConditionalGet(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(sampleICS))
	}))
	defer server.Close()

	fetcher := feed.NewFetcher(5*time.Second, t.TempDir())
	ctx := context.Background()
	if _, _, err := fetcher.Fetch(ctx, server.URL); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	body, fromCache, err := fetcher.Fetch(ctx, server.URL)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if !fromCache {
		t.Fatal("expected cached body on 304")
	}
	if string(body) != sampleICS {
		t.Fatal("cached body mismatch")
	}
	if requests != 2 {
		t.Fatalf("expected 2 requests, got %d", requests)
	}
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	fetcher := feed.NewFetcher(5*time.Second, "")
	if _, _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-success status")
	}
}
