package feed

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Entry is the flat projection of one VEVENT the reconciler consumes. The
// wire format stops here; downstream code never sees ICS.
type Entry struct {
	UID         string
	Title       string
	Start       time.Time
	Location    string
	URL         string
	Description string
}

// Parse extracts timed event entries from an ICS payload. Date-only starts
// are interpreted in loc. Blocks missing a summary or a parseable DTSTART are
// skipped with a log line; the rest of the feed is still processed.
func Parse(body []byte, loc *time.Location, logger *slog.Logger) ([]Entry, error) {
	if len(body) == 0 {
		return nil, errors.New("empty feed body")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	events := cal.Events()
	entries := make([]Entry, 0, len(events))
	for _, ve := range events {
		entry, err := parseEvent(ve, loc)
		if err != nil {
			logger.Warn("skipping feed entry", "uid", propertyValue(ve, ical.ComponentPropertyUniqueId), "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseEvent(ve *ical.VEvent, loc *time.Location) (Entry, error) {
	entry := Entry{
		UID:         propertyValue(ve, ical.ComponentPropertyUniqueId),
		Title:       strings.TrimSpace(propertyValue(ve, ical.ComponentPropertySummary)),
		Location:    strings.TrimSpace(propertyValue(ve, ical.ComponentPropertyLocation)),
		URL:         strings.TrimSpace(propertyValue(ve, ical.ComponentPropertyUrl)),
		Description: unescapeText(propertyValue(ve, ical.ComponentPropertyDescription)),
	}

	if entry.Title == "" {
		return Entry{}, errors.New("missing summary")
	}

	start, err := ve.GetStartAt()
	if err != nil {
		// All-day events expose DTSTART as a bare date; retry in loc.
		start, err = startAsDate(ve, loc)
		if err != nil {
			return Entry{}, fmt.Errorf("missing or malformed start: %w", err)
		}
	}
	entry.Start = start.In(loc)
	return entry, nil
}

func startAsDate(ve *ical.VEvent, loc *time.Location) (time.Time, error) {
	prop := ve.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil || prop.Value == "" {
		return time.Time{}, errors.New("no DTSTART")
	}
	return time.ParseInLocation("20060102", strings.TrimSpace(prop.Value), loc)
}

func propertyValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if prop := ve.GetProperty(name); prop != nil {
		return prop.Value
	}
	return ""
}

// unescapeText undoes the TEXT escaping ICS applies to descriptions, so the
// directive extractor sees real newlines.
func unescapeText(s string) string {
	replacer := strings.NewReplacer(
		"\\n", "\n",
		"\\N", "\n",
		"\\,", ",",
		"\\;", ";",
		"\\\\", "\\",
	)
	return replacer.Replace(s)
}
