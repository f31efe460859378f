package textnorm

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters appended by marketing tools; they never
// affect what a link resolves to and would destabilize dedup keys.
var trackingParams = map[string]struct{}{
	"fbclid": {},
	"gclid":  {},
	"igsh":   {},
	"mc_cid": {},
	"mc_eid": {},
}

// NormalizeURL strips known tracking query parameters and canonicalizes
// scheme and host case. Malformed input is returned unchanged.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" {
		return trimmed
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)

	query := parsed.Query()
	changed := false
	for key := range query {
		if isTrackingParam(key) {
			query.Del(key)
			changed = true
		}
	}
	if changed || parsed.RawQuery != "" {
		// url.Values.Encode sorts keys, which keeps output stable across runs.
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func isTrackingParam(key string) bool {
	lowered := strings.ToLower(key)
	if strings.HasPrefix(lowered, "utm_") {
		return true
	}
	_, ok := trackingParams[lowered]
	return ok
}

// NormalizeCoverURL rewrites known blob-style hosting links to direct-content
// form and resolves site-relative paths against siteOrigin. Absolute and
// data: URLs pass through untouched.
func NormalizeCoverURL(raw, siteOrigin string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "data:") {
		return trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}

	if parsed.Scheme == "" {
		if siteOrigin == "" {
			return trimmed
		}
		return strings.TrimRight(siteOrigin, "/") + "/" + strings.TrimLeft(trimmed, "/")
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case host == "drive.google.com":
		if id := driveFileID(parsed); id != "" {
			return "https://drive.google.com/uc?export=view&id=" + id
		}
	case host == "www.dropbox.com" || host == "dropbox.com":
		query := parsed.Query()
		if query.Get("dl") == "0" {
			query.Set("dl", "1")
			parsed.RawQuery = query.Encode()
			return parsed.String()
		}
	}
	return trimmed
}

// driveFileID extracts the file identifier from the share-link shapes Drive
// hands out: /file/d/<id>/view and /open?id=<id>.
func driveFileID(u *url.URL) string {
	if id := u.Query().Get("id"); id != "" {
		return id
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part == "d" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}
