// Package identity computes dedup identities for event records.
//
// Identity is derived, never stored: an explicit external identifier wins,
// otherwise a normalized content fingerprint of title, minute-rounded start,
// and place. A resolver built over an existing population adds a fuzzy
// fallback that absorbs cosmetic title retyping, so one real event does not
// fragment into duplicates when the upstream tool reissues identifiers.
package identity

import (
	"time"

	"marquee/internal/record"
	"marquee/internal/textnorm"
)

const (
	idPrefix          = "id:"
	fingerprintPrefix = "fp:"

	// maxTitleDistance bounds the edit distance between normalized titles
	// accepted by the fuzzy fallback.
	maxTitleDistance = 2
)

// Key returns the record's self identity: the explicit identifier when
// present, else the content fingerprint.
func Key(rec record.Record) string {
	if rec.ID != "" {
		return idPrefix + rec.ID
	}
	return fingerprintPrefix + Fingerprint(rec)
}

// Fingerprint composes the normalized content key: slug(title), minute-rounded
// ISO start, slug(place).
func Fingerprint(rec record.Record) string {
	return textnorm.Slug(rec.Title) + "__" + rec.StartMinute().Format(time.RFC3339) + "__" + textnorm.Slug(rec.Place)
}

type member struct {
	key   string
	title string
	place string
}

// Resolver resolves incoming records against a known population. It indexes
// members three ways: by explicit identifier, by content fingerprint, and by
// minute-rounded start for the fuzzy pass.
type Resolver struct {
	byID          map[string]string
	byFingerprint map[string]string
	byMinute      map[time.Time][]member
}

// NewResolver indexes the existing population. Each existing record resolves
// to its own self identity; fuzzy matching never applies to self-identity.
func NewResolver(existing []record.Record) *Resolver {
	r := &Resolver{
		byID:          make(map[string]string, len(existing)),
		byFingerprint: make(map[string]string, len(existing)),
		byMinute:      make(map[time.Time][]member, len(existing)),
	}
	for _, rec := range existing {
		r.Add(Key(rec), rec)
	}
	return r
}

// Add registers a record under its resolved key so later records can match
// it. Used both for the initial population and for incoming records as they
// are merged in.
func (r *Resolver) Add(key string, rec record.Record) {
	if rec.ID != "" {
		if _, ok := r.byID[rec.ID]; !ok {
			r.byID[rec.ID] = key
		}
	}
	fp := Fingerprint(rec)
	if _, ok := r.byFingerprint[fp]; !ok {
		r.byFingerprint[fp] = key
	}
	minute := rec.StartMinute()
	r.byMinute[minute] = append(r.byMinute[minute], member{
		key:   key,
		title: textnorm.Normalize(rec.Title),
		place: textnorm.Slug(rec.Place),
	})
}

// Resolve returns the identity an incoming record collapses into. Priority:
// explicit identifier match, content fingerprint match, fuzzy title match
// among same-minute members, then the record's own self identity.
func (r *Resolver) Resolve(rec record.Record) string {
	if rec.ID != "" {
		if key, ok := r.byID[rec.ID]; ok {
			return key
		}
	}
	if key, ok := r.byFingerprint[Fingerprint(rec)]; ok {
		return key
	}
	if key, ok := r.fuzzyMatch(rec); ok {
		return key
	}
	return Key(rec)
}

func (r *Resolver) fuzzyMatch(rec record.Record) (string, bool) {
	title := textnorm.Normalize(rec.Title)
	place := textnorm.Slug(rec.Place)
	for _, cand := range r.byMinute[rec.StartMinute()] {
		// Places must be equal (or both empty) before titles are compared.
		if cand.place != place {
			continue
		}
		if textnorm.Distance(title, cand.title) <= maxTitleDistance {
			return cand.key, true
		}
	}
	return "", false
}
