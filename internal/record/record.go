// Package record defines the event record shared by the store, the identity
// resolver, and the merge policy, plus the lock-marker convention used to
// protect hand-edited values from automatic overwrites.
package record

import (
	"strings"
	"time"
)

// LockMarker is the sentinel prefix editors put on a field value to keep
// automatic data from overwriting it. It is stripped during a merge pass and
// never written back; re-locking is an explicit editor action.
const LockMarker = "!"

// Origin records which side of the reconciliation produced a row.
type Origin string

const (
	OriginManual    Origin = "manual"
	OriginAutomatic Origin = "automatic"
)

// Field names a single record field for lock tracking and merge policy.
type Field string

const (
	FieldID        Field = "id"
	FieldTitle     Field = "title"
	FieldStart     Field = "start_time"
	FieldPlace     Field = "place"
	FieldCover     Field = "cover"
	FieldEventURL  Field = "event_url"
	FieldTicketURL Field = "ticket_url"
)

// Record is one event row. Start carries an explicit zone; string fields hold
// resolved values with any lock marker already stripped, the lock itself
// living in the locks set for the duration of a run.
type Record struct {
	ID        string
	Title     string
	Start     time.Time
	Place     string
	Cover     string
	EventURL  string
	TicketURL string
	Origin    Origin

	locks map[Field]struct{}
}

// Valid reports whether the record has the mandatory title and start time.
func (r Record) Valid() bool {
	return strings.TrimSpace(r.Title) != "" && !r.Start.IsZero()
}

// StartMinute returns the start truncated to minute resolution in UTC, the
// form every identity computation uses. Sub-minute feed jitter is deliberately
// discarded.
func (r Record) StartMinute() time.Time {
	return r.Start.UTC().Truncate(time.Minute)
}

// Lock marks a field as protected against automatic overwrite for this run.
func (r *Record) Lock(f Field) {
	if r.locks == nil {
		r.locks = make(map[Field]struct{}, 2)
	}
	r.locks[f] = struct{}{}
}

// Locked reports whether the field carried a lock marker.
func (r Record) Locked(f Field) bool {
	_, ok := r.locks[f]
	return ok
}

// HasLocks reports whether any field on the record is locked.
func (r Record) HasLocks() bool {
	return len(r.locks) > 0
}

// StripLock splits a raw field value into its resolved value and lock flag.
func StripLock(raw string) (value string, locked bool) {
	if strings.HasPrefix(raw, LockMarker) {
		return strings.TrimSpace(strings.TrimPrefix(raw, LockMarker)), true
	}
	return strings.TrimSpace(raw), false
}
