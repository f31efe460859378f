package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Concert Rock", "concert rock"},
		{"diacritics", "Café Dansant", "cafe dansant"},
		{"punctuation", "Soirée: jazz & swing!", "soiree jazz swing"},
		{"whitespace", "  deux   mots \t", "deux mots"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeStable(t *testing.T) {
	in := "Fête de la Musique — édition 2026"
	first := Normalize(in)
	for i := 0; i < 5; i++ {
		if got := Normalize(in); got != first {
			t.Fatalf("Normalize drifted: %q vs %q", got, first)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Café Dansant", "cafe-dansant"},
		{"Soirée : Jazz", "soiree-jazz"},
		{"", ""},
		{"--- ", ""},
		{"Théâtre de l'Œuvre", "theatre-de-l-uvre"},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"cafe dansant", "cafe dansant", 0},
		{"cafe dansant", "cafe dansante", 1},
		{"kitten", "sitting", 3},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
