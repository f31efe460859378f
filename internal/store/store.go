// Package store reads and writes the hand-editable events table.
//
// The table is a plain CSV file with a fixed header so it stays friendly to
// spreadsheet editing: id, name, start_time, place, cover, event_url,
// ticket_url, source. Reads are permissive (a missing file is an empty store,
// short rows are padded, invalid rows are dropped); writes replace the whole
// file atomically via a temp file and rename.
package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"marquee/internal/record"
)

// Header is the fixed column order of the events table.
var Header = []string{"id", "name", "start_time", "place", "cover", "event_url", "ticket_url", "source"}

// startLayouts are the timestamp shapes accepted on read. The first is what
// we write; the others tolerate hand edits. Layouts without a zone are
// interpreted in loc.
var startLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
}

// Load reads the events table. A missing file yields an empty store. Rows
// without a title or with an unparseable start time are dropped along with
// rows that are not CSV at all.
func Load(path string, loc *time.Location) ([]record.Record, error) {
	if loc == nil {
		loc = time.UTC
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	records := make([]record.Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		rec, ok := parseRow(row, loc)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save atomically replaces the events table, always writing the header row
// and a trailing newline. Start times are serialized as RFC3339 in each
// record's own zone.
func Save(path string, records []record.Record) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := writer.Write(formatRow(rec)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), Header[0])
}

func parseRow(row []string, loc *time.Location) (record.Record, bool) {
	cells := make([]string, len(Header))
	copy(cells, row)

	var rec record.Record
	assign := func(field record.Field, idx int) string {
		value, locked := record.StripLock(cells[idx])
		if locked {
			rec.Lock(field)
		}
		return value
	}

	rec.ID = assign(record.FieldID, 0)
	rec.Title = assign(record.FieldTitle, 1)
	startRaw := assign(record.FieldStart, 2)
	rec.Place = assign(record.FieldPlace, 3)
	rec.Cover = assign(record.FieldCover, 4)
	rec.EventURL = assign(record.FieldEventURL, 5)
	rec.TicketURL = assign(record.FieldTicketURL, 6)
	rec.Origin = parseOrigin(cells[7])

	start, ok := parseStart(startRaw, loc)
	if !ok {
		return record.Record{}, false
	}
	rec.Start = start

	if !rec.Valid() {
		return record.Record{}, false
	}
	return rec, true
}

func parseStart(raw string, loc *time.Location) (time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, l := range startLayouts {
		if l.zoned {
			if t, err := time.Parse(l.layout, trimmed); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.ParseInLocation(l.layout, trimmed, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseOrigin(raw string) record.Origin {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(record.OriginAutomatic):
		return record.OriginAutomatic
	default:
		// Blank or unknown provenance means a human touched the row.
		return record.OriginManual
	}
}

func formatRow(rec record.Record) []string {
	return []string{
		rec.ID,
		rec.Title,
		rec.Start.Format(time.RFC3339),
		rec.Place,
		rec.Cover,
		rec.EventURL,
		rec.TicketURL,
		string(rec.Origin),
	}
}
