// Package lifecycle decides which event records are still worth listing.
// It only includes or excludes; it never mutates a record.
package lifecycle

import (
	"time"

	"marquee/internal/record"
)

// IsLive reports whether the record should remain listed at the given
// instant. A record is live while now precedes start plus the grace period.
// Records without a usable start time are excluded rather than kept forever,
// so corrupt rows do not accumulate across runs.
func IsLive(rec record.Record, now time.Time, grace time.Duration) bool {
	if rec.Start.IsZero() {
		return false
	}
	return now.Before(rec.Start.Add(grace))
}

// Filter returns the live subset of records, preserving input order.
func Filter(recs []record.Record, now time.Time, grace time.Duration) []record.Record {
	live := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		if IsLive(rec, now, grace) {
			live = append(live, rec)
		}
	}
	return live
}
