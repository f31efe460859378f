// Package feed fetches and parses the upstream ICS calendar.
//
// Fetching performs a single conditional GET per run, persisting ETag and
// Last-Modified metadata next to the cached body so unchanged feeds cost one
// round trip. Any non-success response or network failure is an error: the
// pipeline treats a run without fresh feed data as fatal rather than risk
// publishing a stale-filtered table.
//
// Parsing turns VEVENT blocks into flat entries. Entries missing a summary or
// start time are skipped individually; one malformed block never poisons the
// rest of the feed.
package feed
