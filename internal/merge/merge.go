// Package merge implements the field-level reconciliation policy applied when
// an existing row and an incoming feed record resolve to the same identity.
//
// Two field classes exist. Manual-first fields (cover, event URL, ticket URL,
// identifier) guard hand-entered data: a non-empty existing value survives any
// incoming value, locked or not. Feed-authoritative fields (title, start,
// place) treat the feed as the source of truth for factual data, overridable
// only by an explicit lock. Locks are consumed: the merged record keeps the
// unlocked value and carries no lock forward; editors re-lock on each edit.
package merge

import (
	"regexp"

	"marquee/internal/record"
)

// genericCover matches placeholder and logo filenames that feeds fall back to
// when an event has no artwork. Such candidates count as "no value": they
// never fill an empty cover and never overwrite a real one.
var genericCover = regexp.MustCompile(`(?i)(?:^|/)(?:logo|placeholder|default|avatar)[^/]*\.(?:png|jpe?g|gif|webp|svg)(?:\?.*)?$`)

// GenericCover reports whether a candidate cover URL is a known placeholder.
func GenericCover(u string) bool {
	return u != "" && genericCover.MatchString(u)
}

// Merge combines an existing record with an incoming record resolved to the
// same identity. It is pure and total; when several incoming records collapse
// to one identity it is applied pairwise in encounter order. The existing
// side may be the zero Record, in which case the incoming record simply has
// policy (lock stripping, placeholder suppression) applied to it.
func Merge(existing, incoming record.Record) record.Record {
	merged := record.Record{
		ID:        manualFirst(existing, record.FieldID, existing.ID, incoming.ID),
		Title:     feedAuthoritative(existing, record.FieldTitle, existing.Title, incoming.Title),
		Place:     feedAuthoritative(existing, record.FieldPlace, existing.Place, incoming.Place),
		Cover:     mergeCover(existing, incoming),
		EventURL:  manualFirst(existing, record.FieldEventURL, existing.EventURL, incoming.EventURL),
		TicketURL: manualFirst(existing, record.FieldTicketURL, existing.TicketURL, incoming.TicketURL),
		Origin:    mergeOrigin(existing.Origin, incoming.Origin),
	}

	switch {
	case existing.Locked(record.FieldStart):
		merged.Start = existing.Start
	case !incoming.Start.IsZero():
		merged.Start = incoming.Start
	default:
		merged.Start = existing.Start
	}

	return merged
}

// manualFirst keeps hand-entered data: locked or non-empty existing values
// win; the incoming value only fills a gap.
func manualFirst(existing record.Record, field record.Field, existingValue, incomingValue string) string {
	if existing.Locked(field) {
		return existingValue
	}
	if existingValue != "" {
		return existingValue
	}
	return incomingValue
}

// feedAuthoritative prefers the incoming value unless the existing one is
// locked; the existing value only covers an incoming gap.
func feedAuthoritative(existing record.Record, field record.Field, existingValue, incomingValue string) string {
	if existing.Locked(field) {
		return existingValue
	}
	if incomingValue != "" {
		return incomingValue
	}
	return existingValue
}

// mergeCover is manualFirst with the placeholder guard: a generic candidate
// is demoted to empty before the policy runs.
func mergeCover(existing, incoming record.Record) string {
	incomingCover := incoming.Cover
	if GenericCover(incomingCover) {
		incomingCover = ""
	}
	return manualFirst(existing, record.FieldCover, existing.Cover, incomingCover)
}

func mergeOrigin(existing, incoming record.Origin) record.Origin {
	if existing != "" {
		return existing
	}
	if incoming != "" {
		return incoming
	}
	return record.OriginAutomatic
}
