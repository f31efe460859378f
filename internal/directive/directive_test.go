package directive

import "testing"

func TestExtractDirectives(t *testing.T) {
	text := "Grande soirée d'ouverture.\n" +
		"cover: https://example.org/poster.jpg\n" +
		"!billets: https://billetweb.fr/soiree\n" +
		"lieu: Le Hangar\n"

	out := Extract(text)
	if !out.Cover.Set || out.Cover.Text != "https://example.org/poster.jpg" || out.Cover.Locked {
		t.Fatalf("unexpected cover: %+v", out.Cover)
	}
	if !out.TicketURL.Set || out.TicketURL.Text != "https://billetweb.fr/soiree" || !out.TicketURL.Locked {
		t.Fatalf("unexpected ticket: %+v", out.TicketURL)
	}
	if !out.Place.Set || out.Place.Text != "Le Hangar" {
		t.Fatalf("unexpected place: %+v", out.Place)
	}
	if out.EventURL.Set {
		t.Fatalf("unexpected event url: %+v", out.EventURL)
	}
}

func TestExtractFirstMatchWins(t *testing.T) {
	text := "image: first.jpg\nposter: second.jpg\n"
	out := Extract(text)
	if out.Cover.Text != "first.jpg" {
		t.Fatalf("expected first directive to win, got %q", out.Cover.Text)
	}
}

func TestExtractKeysCaseInsensitive(t *testing.T) {
	out := Extract("COVER: shout.png")
	if !out.Cover.Set || out.Cover.Text != "shout.png" {
		t.Fatalf("unexpected cover: %+v", out.Cover)
	}
}

func TestExtractIgnoresUnknownKeys(t *testing.T) {
	out := Extract("price: 12 EUR\nhttps://example.org not a directive\n")
	if out.Cover.Set || out.TicketURL.Set || out.EventURL.Set || out.Place.Set {
		t.Fatalf("expected no overrides, got %+v", out)
	}
}

func TestCoverCandidatePrefersMarkdown(t *testing.T) {
	text := "voir https://example.org/bare.jpg et ![affiche](https://example.org/md.png)"
	if got := CoverCandidate(text); got != "https://example.org/md.png" {
		t.Fatalf("CoverCandidate = %q", got)
	}
}

func TestCoverCandidateBareURL(t *testing.T) {
	text := "l'affiche est sur https://example.org/photos/soiree.JPG ce soir"
	if got := CoverCandidate(text); got != "https://example.org/photos/soiree.JPG" {
		t.Fatalf("CoverCandidate = %q", got)
	}
	if got := CoverCandidate("aucune image ici"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestTicketCandidate(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"known host", "infos https://www.billetweb.fr/ev123 merci", "https://www.billetweb.fr/ev123"},
		{"labelled url", "Réservation : https://example.org/resa", "https://example.org/resa"},
		{"plain url ignored", "site https://example.org/page", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TicketCandidate(tc.in); got != tc.want {
				t.Fatalf("TicketCandidate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
