package directive

import (
	"net/url"
	"regexp"
	"strings"
)

// Secondary extraction, used only for fields no directive populated: scan the
// free text for URLs that look like a cover image or a ticketing link.

var (
	markdownImage = regexp.MustCompile(`(?i)!\[[^\]]*\]\(\s*(https?://[^\s)]+?\.(?:png|jpe?g|gif|webp)(?:\?[^\s)]*)?)\s*\)`)
	bareImageURL  = regexp.MustCompile(`(?i)https?://[^\s"'<>)]+?\.(?:png|jpe?g|gif|webp)(?:\?[^\s"'<>)]*)?`)
	bareURL       = regexp.MustCompile(`https?://[^\s"'<>)]+`)
	ticketLabel   = regexp.MustCompile(`(?i)(?:tickets?|billets?|billetterie|r[ée]servations?)\s*:?\s*(https?://[^\s"'<>)]+)`)
)

// ticketHosts is the closed list of ticketing platforms whose links count as
// ticket URLs without any label.
var ticketHosts = []string{
	"billetweb.fr",
	"helloasso.com",
	"eventbrite.com",
	"eventbrite.fr",
	"weezevent.com",
	"yurplan.com",
	"shotgun.live",
}

// CoverCandidate returns the first image-like URL in the text, preferring a
// markdown image over a bare URL. Empty when nothing qualifies.
func CoverCandidate(freeText string) string {
	if m := markdownImage.FindStringSubmatch(freeText); m != nil {
		return m[1]
	}
	return bareImageURL.FindString(freeText)
}

// TicketCandidate returns the first URL hosted on a known ticketing platform,
// falling back to a URL carrying an explicit tickets label.
func TicketCandidate(freeText string) string {
	for _, raw := range bareURL.FindAllString(freeText, -1) {
		if isTicketHost(raw) {
			return raw
		}
	}
	if m := ticketLabel.FindStringSubmatch(freeText); m != nil {
		return m[1]
	}
	return ""
}

func isTicketHost(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, known := range ticketHosts {
		if host == known || strings.HasSuffix(host, "."+known) {
			return true
		}
	}
	return false
}
