// Package directive reads structured overrides out of free-text event
// descriptions. Editors and feed authors can pin a cover image, ticket link,
// canonical event link, or place with a "key: value" line, optionally
// prefixed with the lock marker to shield the value from later feed updates.
package directive

import (
	"regexp"
	"strings"
)

// Overrides carries the per-field results of a directive scan. A field whose
// Set flag is false contributed no override; callers fall back to heuristic
// extraction or the record's native value.
type Overrides struct {
	Cover     Value
	TicketURL Value
	EventURL  Value
	Place     Value
}

// Value is one extracted override plus its lock flag.
type Value struct {
	Text   string
	Locked bool
	Set    bool
}

// rules maps directive key synonyms onto override fields. The vocabulary is
// fixed; keys are matched case-insensitively on whole lines only.
var rules = []struct {
	assign   func(*Overrides) *Value
	synonyms []string
}{
	{func(o *Overrides) *Value { return &o.Cover }, []string{"cover", "image", "poster", "affiche"}},
	{func(o *Overrides) *Value { return &o.TicketURL }, []string{"ticket", "tickets", "billets", "billetterie"}},
	{func(o *Overrides) *Value { return &o.EventURL }, []string{"link", "lien", "url", "event"}},
	{func(o *Overrides) *Value { return &o.Place }, []string{"place", "lieu", "location"}},
}

var directiveLine = regexp.MustCompile(`^\s*(!?)\s*([\p{L}]+)\s*:\s*(.+?)\s*$`)

// Extract scans freeText for directive lines. The first matching line per
// field wins; later repeats are ignored.
func Extract(freeText string) Overrides {
	var out Overrides
	if strings.TrimSpace(freeText) == "" {
		return out
	}

	for _, line := range strings.Split(freeText, "\n") {
		m := directiveLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		locked := m[1] == "!"
		key := strings.ToLower(m[2])
		text := m[3]

		for _, rule := range rules {
			if !matchesKey(rule.synonyms, key) {
				continue
			}
			field := rule.assign(&out)
			if field.Set {
				break
			}
			*field = Value{Text: text, Locked: locked, Set: true}
			break
		}
	}
	return out
}

func matchesKey(synonyms []string, key string) bool {
	for _, s := range synonyms {
		if s == key {
			return true
		}
	}
	return false
}
