package resolve

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Schlüssel  ", "schlussel"},
		{"Türöffner", "turoffner"},
		{"STRASSE  karte", "strasse karte"},
		{"Café", "cafe"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func testCandidates() []Candidate {
	return []Candidate{
		{ID: "rusty_key", Name: "Rostiger Schlüssel"},
		{ID: "golden_key", Name: "Goldener Schlüssel"},
		{ID: "terminal", Name: "Terminal"},
		{ID: "wire", Name: "Kupferdraht"},
	}
}

func TestFind_ExactIDWins(t *testing.T) {
	got, err := Find("terminal", testCandidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "terminal" {
		t.Errorf("got %q", got.ID)
	}
}

func TestFind_SubstringMatch(t *testing.T) {
	got, err := Find("kupfer", testCandidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "wire" {
		t.Errorf("got %q, want wire", got.ID)
	}
}

func TestFind_DiacriticInsensitive(t *testing.T) {
	got, err := Find("goldener schlussel", testCandidates())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "golden_key" {
		t.Errorf("got %q, want golden_key", got.ID)
	}
}

func TestFind_Ambiguous(t *testing.T) {
	_, err := Find("schlüssel", testCandidates())
	var ambiguous *AmbiguityError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguityError, got %v", err)
	}
	if len(ambiguous.Matches) != 2 {
		t.Errorf("expected 2 matches, got %d", len(ambiguous.Matches))
	}
}

func TestFind_NotFound(t *testing.T) {
	_, err := Find("laserkanone", testCandidates())
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
